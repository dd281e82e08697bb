package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/ihor-metko/RSP-sub015/internal/config"
	"github.com/ihor-metko/RSP-sub015/internal/database"
	"github.com/ihor-metko/RSP-sub015/internal/domain"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM availability_blocks")
	db.Exec("DELETE FROM pricing_rules")
	db.Exec("DELETE FROM holidays")
	db.Exec("DELETE FROM club_hours")
	db.Exec("DELETE FROM resources")
	db.Exec("DELETE FROM clubs")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")
	admin := domain.User{Email: "admin@rsp.local", Name: "Platform Admin", Role: domain.RoleAdmin}
	clubAdmin := domain.User{Email: "manager@ace.local", Name: "Club Manager", Role: domain.RoleClubAdmin}
	customer := domain.User{Email: "alex@example.com", Name: "Alex Petrov", Role: domain.RoleCustomer}
	blocked := domain.User{Email: "banned@example.com", Name: "No Show Nick", Role: domain.RoleCustomer, IsBlocked: true}
	for _, u := range []*domain.User{&admin, &clubAdmin, &customer, &blocked} {
		if err := db.Create(u).Error; err != nil {
			log.Fatal("user seed failed:", err)
		}
	}

	log.Println("Creating clubs and courts...")
	club := domain.Club{Name: "Ace Tennis Club", City: "Almaty", Timezone: "Asia/Almaty"}
	if err := db.Create(&club).Error; err != nil {
		log.Fatal("club seed failed:", err)
	}
	for _, h := range domain.DefaultClubHours(club.ID) {
		hours := h
		if hours.DayOfWeek == 0 {
			hours.IsClosed = true
		}
		if err := db.Create(&hours).Error; err != nil {
			log.Fatal("hours seed failed:", err)
		}
	}

	courts := []domain.Resource{
		{ClubID: club.ID, Name: "Center Court", SportType: domain.SportTennis, DefaultPriceCents: 800000, IsActive: true},
		{ClubID: club.ID, Name: "Court 2", SportType: domain.SportTennis, DefaultPriceCents: 600000, IsActive: true},
		{ClubID: club.ID, Name: "Padel 1", SportType: domain.SportPadel, DefaultPriceCents: 500000, IsActive: true},
	}
	for i := range courts {
		if err := db.Create(&courts[i]).Error; err != nil {
			log.Fatal("court seed failed:", err)
		}
	}

	log.Println("Creating holidays...")
	holiday := domain.Holiday{Date: "2026-03-22", Name: "Nauryz"}
	if err := db.Create(&holiday).Error; err != nil {
		log.Fatal("holiday seed failed:", err)
	}

	log.Println("Creating pricing rules...")
	day := 6 // Saturday
	rules := []domain.PricingRule{
		{ResourceID: courts[0].ID, RuleType: domain.RuleWeekdays, StartTime: "18:00", EndTime: "22:00", PriceCents: 1000000},
		{ResourceID: courts[0].ID, RuleType: domain.RuleSpecificDay, DayOfWeek: &day, StartTime: "08:00", EndTime: "12:00", PriceCents: 900000},
		{ResourceID: courts[1].ID, RuleType: domain.RuleHoliday, HolidayID: &holiday.ID, StartTime: "08:00", EndTime: "22:00", PriceCents: 1200000},
	}
	for i := range rules {
		if err := db.Create(&rules[i]).Error; err != nil {
			log.Fatal("rule seed failed:", err)
		}
	}

	log.Println("Creating a sample reservation...")
	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	res := domain.Reservation{
		ResourceID: courts[0].ID,
		UserID:     customer.ID,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		PriceCents: 800000,
		Status:     domain.ReservationReserved,
	}
	if err := db.Create(&res).Error; err != nil {
		log.Fatal("reservation seed failed:", err)
	}

	log.Println("Seed completed")
}
