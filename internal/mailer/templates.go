package mailer

// mailTemplates holds every notification body. All templates share the
// data map convention: Name, EquipmentName, OwnerName, RenterName, ResetURL.
const mailTemplates = `
{{define "welcome"}}
<html><body>
<h2>Welcome to Krushak, {{.Name}}!</h2>
<p>Your account is ready. List your farm equipment or find what you need nearby.</p>
</body></html>
{{end}}

{{define "password_reset"}}
<html><body>
<h2>Password reset</h2>
<p>Hello {{.Name}},</p>
<p>Use the link below to reset your password. The link expires in 15 minutes.</p>
<p><a href="{{.ResetURL}}">Reset password</a></p>
<p>If you did not request this, you can ignore this email.</p>
</body></html>
{{end}}

{{define "booking_requested"}}
<html><body>
<h2>New booking request</h2>
<p>{{.RenterName}} has requested to book <strong>{{.EquipmentName}}</strong>.</p>
<p>Confirm or reject the request from your bookings page.</p>
</body></html>
{{end}}

{{define "booking_confirmed"}}
<html><body>
<h2>Booking confirmed</h2>
<p>{{.OwnerName}} confirmed your booking for <strong>{{.EquipmentName}}</strong>.</p>
<p>Coordinate the handover using the owner's contact details on the booking page.</p>
</body></html>
{{end}}

{{define "booking_cancelled"}}
<html><body>
<h2>Booking cancelled</h2>
<p>The booking for <strong>{{.EquipmentName}}</strong> has been cancelled.</p>
</body></html>
{{end}}

{{define "booking_tracking"}}
<html><body>
<h2>Equipment handed over</h2>
<p><strong>{{.EquipmentName}}</strong> is now with {{.RenterName}}.</p>
</body></html>
{{end}}

{{define "booking_completed"}}
<html><body>
<h2>Booking completed</h2>
<p><strong>{{.EquipmentName}}</strong> has been returned. Thanks for using Krushak.</p>
</body></html>
{{end}}
`
