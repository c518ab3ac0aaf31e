// Package seed populates an empty development database with sample rooms and
// a default staff account.
package seed

import (
	"context"
	"time"

	"go.uber.org/zap"

	roomDomain "github.com/harborview-hospitality/service-reservation/internal/domain/room"
	userDomain "github.com/harborview-hospitality/service-reservation/internal/domain/user"
)

// Admin creates the default admin account when no account holds the name yet.
// Development only; the password must be rotated before any shared deploy.
func Admin(ctx context.Context, repo userDomain.Repository, username, password string, log *zap.Logger) error {
	exists, err := repo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		log.Debug("admin account already seeded", zap.String("username", username))
		return nil
	}

	admin, err := userDomain.NewUser(username, password, "System Administrator", userDomain.RoleAdmin, time.Now().UTC())
	if err != nil {
		return err
	}
	if err := repo.Save(ctx, admin); err != nil {
		return err
	}

	log.Info("admin account seeded", zap.String("username", username))
	return nil
}

// Rooms inserts the sample room inventory when the rooms table is empty.
func Rooms(ctx context.Context, repo roomDomain.Repository, log *zap.Logger) error {
	existing, err := repo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Debug("room inventory already seeded", zap.Int("rooms", len(existing)))
		return nil
	}

	samples := []roomDomain.Attributes{
		{
			RoomNumber:    "101",
			Type:          roomDomain.TypeSingle,
			PricePerNight: 100.0,
			Capacity:      1,
			SizeSqm:       18,
			BedType:       "Single",
			Description:   "Cozy single room on the ground floor",
			Amenities:     []string{"WiFi", "TV", "Air Conditioning"},
			Floor:         1,
			View:          "Garden",
		},
		{
			RoomNumber:    "102",
			Type:          roomDomain.TypeSingle,
			PricePerNight: 100.0,
			Capacity:      1,
			SizeSqm:       18,
			BedType:       "Single",
			Description:   "Quiet single room near the courtyard",
			Amenities:     []string{"WiFi", "TV", "Air Conditioning"},
			Floor:         1,
			View:          "Courtyard",
		},
		{
			RoomNumber:    "201",
			Type:          roomDomain.TypeDouble,
			PricePerNight: 150.0,
			Capacity:      2,
			SizeSqm:       26,
			BedType:       "Queen",
			Description:   "Double room with a city view",
			Amenities:     []string{"WiFi", "TV", "Air Conditioning", "Mini Bar"},
			Floor:         2,
			View:          "City",
		},
		{
			RoomNumber:    "202",
			Type:          roomDomain.TypeDouble,
			PricePerNight: 150.0,
			Capacity:      2,
			SizeSqm:       26,
			BedType:       "Twin",
			Description:   "Twin double room facing the harbor",
			Amenities:     []string{"WiFi", "TV", "Air Conditioning", "Mini Bar"},
			Floor:         2,
			View:          "Harbor",
		},
		{
			RoomNumber:    "301",
			Type:          roomDomain.TypeSuite,
			PricePerNight: 300.0,
			Capacity:      4,
			SizeSqm:       48,
			BedType:       "King",
			Description:   "Suite with a separate living area",
			Amenities:     []string{"WiFi", "TV", "Air Conditioning", "Mini Bar", "Bathtub", "Balcony"},
			Floor:         3,
			View:          "Harbor",
		},
		{
			RoomNumber:    "401",
			Type:          roomDomain.TypeDeluxe,
			PricePerNight: 450.0,
			Capacity:      4,
			SizeSqm:       64,
			BedType:       "King",
			Description:   "Top-floor deluxe room with panoramic views",
			Amenities:     []string{"WiFi", "TV", "Air Conditioning", "Mini Bar", "Bathtub", "Balcony", "Espresso Machine"},
			Floor:         4,
			View:          "Panoramic",
			PetFriendly:   true,
		},
	}

	for _, attrs := range samples {
		rm, err := roomDomain.NewRoom(attrs)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, rm); err != nil {
			return err
		}
	}

	log.Info("room inventory seeded", zap.Int("rooms", len(samples)))
	return nil
}
