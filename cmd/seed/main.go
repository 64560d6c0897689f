package main

import (
	"context"
	"log"
	"time"

	"krushak/internal/config"
	"krushak/internal/database"
	"krushak/internal/models"
	"krushak/pkg/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	log.Println("Starting seed...")

	cfg := config.Load()

	mongoDB := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase)
	defer mongoDB.Close()

	ctx := context.Background()

	userIDs := seedUsers(ctx, mongoDB.Database)
	seedEquipment(ctx, mongoDB.Database, userIDs)

	log.Println("Seed completed successfully!")
}

func seedUsers(ctx context.Context, db *mongo.Database) []primitive.ObjectID {
	collection := db.Collection("users")

	_, err := collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to clear users: %v", err)
	}

	password, _ := auth.HashPassword("password123")
	now := time.Now()

	users := []interface{}{
		models.User{
			DisplayName:    "Ramesh Patel",
			Username:       "ramesh1",
			Email:          "ramesh@example.com",
			Password:       password,
			Phone:          "+919876543210",
			Role:           models.RoleEquipmentOwner,
			Favorites:      []primitive.ObjectID{},
			RecentlyViewed: []models.ViewedEquipment{},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		models.User{
			DisplayName:    "Kiran Desai",
			Username:       "kiran22",
			Email:          "kiran@example.com",
			Password:       password,
			Phone:          "+919812345678",
			Role:           models.RoleFarmer,
			Favorites:      []primitive.ObjectID{},
			RecentlyViewed: []models.ViewedEquipment{},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		models.User{
			DisplayName:    "Krushak Admin",
			Username:       "admin",
			Email:          "admin@krushak.in",
			Password:       password,
			Phone:          "+919800000000",
			Role:           models.RoleAdmin,
			Favorites:      []primitive.ObjectID{},
			RecentlyViewed: []models.ViewedEquipment{},
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	result, err := collection.InsertMany(ctx, users)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}

	log.Printf("Seeded %d users", len(result.InsertedIDs))

	var userIDs []primitive.ObjectID
	for _, id := range result.InsertedIDs {
		userIDs = append(userIDs, id.(primitive.ObjectID))
	}
	return userIDs
}

func seedEquipment(ctx context.Context, db *mongo.Database, userIDs []primitive.ObjectID) {
	collection := db.Collection("equipment")

	_, err := collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Failed to clear equipment: %v", err)
	}

	now := time.Now()
	owner := userIDs[0]

	// Coordinates are [longitude, latitude], clustered around Bhuj, Kutch.
	equipment := []interface{}{
		models.Equipment{
			Name:         "Mahindra 575 DI Tractor",
			Description:  "Well maintained 45 HP tractor, suitable for ploughing and haulage. Diesel included for local jobs.",
			Category:     models.CategoryTractor,
			Type:         "4WD",
			Model:        models.ModelInfo{Brand: "Mahindra", Name: "575 DI"},
			Year:         2021,
			Condition:    models.ConditionGood,
			Images:       []string{},
			Pricing:      []models.PricingTier{{Unit: models.UnitPerHour, Price: 650}, {Unit: models.UnitPerDay, Price: 4500}},
			Availability: true,
			Owner:        owner,
			AvailabilityArea: []models.AvailabilityArea{
				{Country: "India", State: "Gujarat", District: "Kutch", Villages: []string{"Bhuj", "Madhapar"}},
			},
			CurrentLocation: "Bhuj, Kutch, Gujarat",
			Geometry:        models.NewGeoPoint(69.6669, 23.2420),
			UsedForCrops:    []string{"wheat", "cotton", "castor"},
			CreatedAt:       now.Add(-72 * time.Hour),
			UpdatedAt:       now.Add(-72 * time.Hour),
		},
		models.Equipment{
			Name:         "John Deere W70 Harvester",
			Description:  "Self-propelled combine harvester with operator. Books out fast in season, reserve early.",
			Category:     models.CategoryHarvester,
			Type:         "Combine",
			Model:        models.ModelInfo{Brand: "John Deere", Name: "W70"},
			Year:         2019,
			Condition:    models.ConditionLikeNew,
			Images:       []string{},
			Pricing:      []models.PricingTier{{Unit: models.UnitPerHectare, Price: 2200}},
			Availability: true,
			Owner:        owner,
			AvailabilityArea: []models.AvailabilityArea{
				{Country: "India", State: "Gujarat", District: "Kutch", Villages: []string{"Anjar", "Gandhidham"}},
			},
			CurrentLocation: "Anjar, Kutch, Gujarat",
			Geometry:        models.NewGeoPoint(70.0260, 23.1130),
			UsedForCrops:    []string{"wheat", "bajra"},
			CreatedAt:       now.Add(-48 * time.Hour),
			UpdatedAt:       now.Add(-48 * time.Hour),
		},
		models.Equipment{
			Name:         "Reversible Hydraulic Plough",
			Description:  "Three-furrow reversible plough, fits any 40+ HP tractor. Delivered to your field within the district.",
			Category:     models.CategoryPlough,
			Type:         "Reversible",
			Model:        models.ModelInfo{Brand: "Fieldking", Name: "FKRMBP-3"},
			Year:         2022,
			Condition:    models.ConditionNew,
			Images:       []string{},
			Pricing:      []models.PricingTier{{Unit: models.UnitPerDay, Price: 1200}, {Unit: models.UnitPerWeek, Price: 6500}},
			Availability: true,
			Owner:        owner,
			AvailabilityArea: []models.AvailabilityArea{
				{Country: "India", State: "Gujarat", District: "Kutch", Villages: []string{"Mandvi"}},
			},
			CurrentLocation: "Mandvi, Kutch, Gujarat",
			Geometry:        models.NewGeoPoint(69.3520, 22.8330),
			UsedForCrops:    []string{"groundnut", "cotton", "cumin"},
			CreatedAt:       now.Add(-24 * time.Hour),
			UpdatedAt:       now.Add(-24 * time.Hour),
		},
	}

	result, err := collection.InsertMany(ctx, equipment)
	if err != nil {
		log.Fatalf("Failed to seed equipment: %v", err)
	}

	log.Printf("Seeded %d equipment listings", len(result.InsertedIDs))
}
