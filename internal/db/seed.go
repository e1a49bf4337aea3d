package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedInterests = []string{
	"Programming", "Technology", "Gaming", "Hiking", "Artificial Intelligence",
	"Web Development", "Photography", "Traveling", "Art", "Graphic Design",
	"Cooking", "Movies", "Weightlifting", "Running", "Entrepreneurship",
	"Marketing", "Swimming", "Data Science", "Research", "Reading",
	"Music", "Video Editing", "Yoga", "Dancing", "Basketball",
	"Soccer", "Tennis", "Painting", "Writing", "Gardening",
}

var seedSkills = []string{
	"Python", "JavaScript", "React", "Node.js", "Machine Learning", "Git",
	"Docker", "Adobe Photoshop", "Adobe Illustrator", "Figma", "UI/UX Design",
	"Content Creation", "Brand Design", "Leadership", "Project Management",
	"Communication", "Public Speaking", "Teamwork", "Problem Solving",
	"Data Analysis", "SQL", "Music Production", "Audio Engineering", "Sound Design",
	"Java", "C++", "PHP", "Ruby", "Swift", "Kotlin",
}

type seedAccount struct {
	Email     string
	FirstName string
	LastName  string
	Age       int
	City      string
	Bio       string
	Goals     string
	Interests []string
	Skills    []string
}

var seedAccounts = []seedAccount{
	{
		Email: "john.doe@example.com", FirstName: "John", LastName: "Doe", Age: 28, City: "San Francisco",
		Bio:       "Passionate software developer with 5+ years of experience in full-stack development. Love working with Python and JavaScript. Currently exploring machine learning and AI.",
		Goals:     "Looking for work partners and friends with similar interests in technology and entrepreneurship.",
		Interests: []string{"Programming", "Technology", "Gaming", "Hiking", "Artificial Intelligence", "Web Development"},
		Skills:    []string{"Python", "JavaScript", "React", "Node.js", "Machine Learning", "Git", "Docker"},
	},
	{
		Email: "jane.smith@example.com", FirstName: "Jane", LastName: "Smith", Age: 25, City: "New York",
		Bio:       "Creative UI/UX designer and digital artist with a passion for beautiful, functional design. Love exploring new places and capturing moments through photography.",
		Goals:     "Seeking friends for travel adventures and creative collaborations.",
		Interests: []string{"Photography", "Traveling", "Art", "Graphic Design", "Cooking", "Movies"},
		Skills:    []string{"Adobe Photoshop", "Adobe Illustrator", "Figma", "UI/UX Design", "Content Creation", "Brand Design"},
	},
	{
		Email: "mike.wilson@example.com", FirstName: "Mike", LastName: "Wilson", Age: 32, City: "Los Angeles",
		Bio:       "Fitness enthusiast, certified personal trainer, and entrepreneur. Founded two successful fitness startups in LA. Passionate about health and wellness.",
		Goals:     "Looking for workout partners and business collaborators.",
		Interests: []string{"Weightlifting", "Running", "Entrepreneurship", "Marketing", "Hiking", "Swimming"},
		Skills:    []string{"Leadership", "Project Management", "Communication", "Public Speaking", "Teamwork", "Problem Solving"},
	},
	{
		Email: "sarah.johnson@example.com", FirstName: "Sarah", LastName: "Johnson", Age: 29, City: "Chicago",
		Bio:       "Data scientist and AI researcher with a PhD in Computer Science. Passionate about using data to solve real-world problems.",
		Goals:     "Interested in connecting with other data professionals and researchers.",
		Interests: []string{"Data Science", "Research", "Reading", "Artificial Intelligence", "Technology", "Programming"},
		Skills:    []string{"Python", "Data Analysis", "Machine Learning", "SQL", "Problem Solving", "Communication"},
	},
	{
		Email: "alex.brown@example.com", FirstName: "Alex", LastName: "Brown", Age: 26, City: "Seattle",
		Bio:       "Professional musician, music producer, and audio engineer. Specialized in electronic music production and sound design.",
		Goals:     "Looking for fellow musicians and music lovers to collaborate with.",
		Interests: []string{"Music", "Gaming", "Movies", "Video Editing", "Photography", "Art"},
		Skills:    []string{"Music Production", "Audio Engineering", "Sound Design", "Content Creation", "Communication", "Teamwork"},
	},
	{
		Email: "emma.davis@example.com", FirstName: "Emma", LastName: "Davis", Age: 27, City: "Boston",
		Bio:       "Marketing specialist and content strategist with expertise in digital marketing and social media. Helped several startups grow their online presence.",
		Goals:     "Seeking networking opportunities with marketing professionals and entrepreneurs.",
		Interests: []string{"Marketing", "Writing", "Yoga", "Reading", "Photography", "Traveling"},
		Skills:    []string{"Project Management", "Communication", "Content Creation", "Leadership", "Brand Design", "Public Speaking"},
	},
	{
		Email: "david.martinez@example.com", FirstName: "David", LastName: "Martinez", Age: 31, City: "Austin",
		Bio:       "Full-stack developer and tech educator. Teaching coding bootcamps and creating online courses. Passionate about making technology accessible to everyone.",
		Goals:     "Looking to connect with other developers, educators, and students.",
		Interests: []string{"Programming", "Technology", "Basketball", "Gaming", "Web Development"},
		Skills:    []string{"JavaScript", "React", "Node.js", "Python", "Git", "Communication", "Leadership"},
	},
	{
		Email: "olivia.taylor@example.com", FirstName: "Olivia", LastName: "Taylor", Age: 24, City: "Miami",
		Bio:       "Aspiring entrepreneur and business student. Working on my first startup in the e-commerce space. Passionate about innovation and sustainability.",
		Goals:     "Seeking mentors, co-founders, and fellow entrepreneurs.",
		Interests: []string{"Entrepreneurship", "Dancing", "Traveling", "Reading", "Art", "Cooking"},
		Skills:    []string{"Leadership", "Project Management", "Problem Solving", "Communication", "Marketing", "Teamwork"},
	},
	{
		Email: "james.anderson@example.com", FirstName: "James", LastName: "Anderson", Age: 30, City: "Denver",
		Bio:       "Outdoor enthusiast and nature photographer. Work as a freelance photographer specializing in landscape and adventure photography.",
		Goals:     "Seeking outdoor adventure partners and photography collaborators.",
		Interests: []string{"Photography", "Hiking", "Traveling", "Art", "Gardening", "Movies"},
		Skills:    []string{"Adobe Photoshop", "Content Creation", "Problem Solving", "Communication", "Teamwork", "UI/UX Design"},
	},
	{
		Email: "sophia.lee@example.com", FirstName: "Sophia", LastName: "Lee", Age: 26, City: "Portland",
		Bio:       "UX researcher and human-computer interaction specialist. Passionate about creating user-centered designs and improving digital experiences.",
		Goals:     "Looking to network with UX professionals, designers, and researchers.",
		Interests: []string{"Technology", "Art", "Yoga", "Reading", "Painting", "Research"},
		Skills:    []string{"UI/UX Design", "Figma", "Data Analysis", "Communication", "Problem Solving", "Leadership"},
	},
}

// SeedTestData resets the database and populates it with demo data.
//
// Behavior:
//  1. Clears all existing rows.
//  2. Seeds the interest and skill catalogs.
//  3. Creates 10 demo users with complete profiles and attached attributes.
//  4. Generates like decisions between them, with every 3rd pair made mutual,
//     plus a few messages between mutual pairs.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	if err := clearAll(db); err != nil {
		return err
	}
	log.Println("Cleared existing data")

	// --- Catalogs ---
	category := "General"
	for _, name := range seedInterests {
		row := Interest{Name: name, Category: &category}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to seed interest: %w", err)
		}
	}
	for _, name := range seedSkills {
		row := Skill{Name: name, Category: &category}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to seed skill: %w", err)
		}
	}
	log.Printf("Seeded %d interests, %d skills.", len(seedInterests), len(seedSkills))

	// --- Users + profiles + attributes ---
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userIDs := make([]uint64, 0, len(seedAccounts))
	for _, acct := range seedAccounts {
		user := User{
			Email:        acct.Email,
			PasswordHash: string(hash),
			Active:       true,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		age, city, bio, goals := acct.Age, acct.City, acct.Bio, acct.Goals
		profile := Profile{
			UserID:      user.ID,
			FirstName:   acct.FirstName,
			LastName:    acct.LastName,
			Age:         &age,
			City:        &city,
			Bio:         &bio,
			SearchGoals: &goals,
			IsComplete:  true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		var interests []Interest
		if err := db.Where("name IN ?", acct.Interests).Find(&interests).Error; err != nil {
			return err
		}
		if err := db.Model(&user).Association("Interests").Append(&interests); err != nil {
			return fmt.Errorf("failed to attach interests: %w", err)
		}
		var skills []Skill
		if err := db.Where("name IN ?", acct.Skills).Find(&skills).Error; err != nil {
			return err
		}
		if err := db.Model(&user).Association("Skills").Append(&skills); err != nil {
			return fmt.Errorf("failed to attach skills: %w", err)
		}

		userIDs = append(userIDs, user.ID)
	}
	log.Printf("Seeded %d users.", len(userIDs))

	// --- Matches (every 3rd pair mutual) ---
	counter := 0
	for _, userID := range userIDs {
		for j := 0; j < 4; j++ {
			other := userIDs[r.Intn(len(userIDs))]
			if other == userID {
				continue
			}

			mutual := counter%3 == 0
			score := 0.2 + r.Float64()*0.7

			forward := Match{
				UserID:             userID,
				MatchedUserID:      other,
				CompatibilityScore: score,
				UserLiked:          true,
				MatchedUserLiked:   mutual,
				IsMutual:           mutual,
			}
			if err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "matched_user_id"}},
				DoNothing: true,
			}).Create(&forward).Error; err != nil {
				return fmt.Errorf("failed to seed match: %w", err)
			}

			if mutual {
				reverse := Match{
					UserID:             other,
					MatchedUserID:      userID,
					CompatibilityScore: score,
					UserLiked:          true,
					MatchedUserLiked:   true,
					IsMutual:           true,
				}
				db.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "user_id"}, {Name: "matched_user_id"}},
					DoNothing: true,
				}).Create(&reverse)

				// a short exchange between mutual pairs
				db.Create(&Message{SenderID: userID, RecipientID: other, Content: "Hey, we matched! How's it going?"})
				db.Create(&Message{SenderID: other, RecipientID: userID, Content: "Great to connect! What are you working on these days?"})
			}

			counter++
		}
	}

	return nil
}

// SeedMinimalTestData loads the smallest fixture useful for manual poking:
// three complete users, one mutual pair, one pending like, one message.
func SeedMinimalTestData(db *gorm.DB) error {
	if err := clearAll(db); err != nil {
		return err
	}

	age1, age2, age3 := 28, 25, 32
	city := "Austin"
	users := []User{
		{ID: 1, Email: "u1@test.com", PasswordHash: "x", Active: true},
		{ID: 2, Email: "u2@test.com", PasswordHash: "x", Active: true},
		{ID: 3, Email: "u3@test.com", PasswordHash: "x", Active: true},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}

	profiles := []Profile{
		{UserID: 1, FirstName: "Uma", LastName: "One", Age: &age1, City: &city, IsComplete: true},
		{UserID: 2, FirstName: "Vic", LastName: "Two", Age: &age2, City: &city, IsComplete: true},
		{UserID: 3, FirstName: "Wes", LastName: "Three", Age: &age3, City: &city, IsComplete: true},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return err
	}

	matches := []Match{
		{UserID: 1, MatchedUserID: 2, CompatibilityScore: 0.8, UserLiked: true, MatchedUserLiked: true, IsMutual: true},
		{UserID: 2, MatchedUserID: 1, CompatibilityScore: 0.8, UserLiked: true, MatchedUserLiked: true, IsMutual: true},
		{UserID: 3, MatchedUserID: 1, CompatibilityScore: 0.5, UserLiked: true}, // pending, non-mutual
	}
	if err := db.Create(&matches).Error; err != nil {
		return err
	}

	return db.Create(&Message{SenderID: 1, RecipientID: 2, Content: "hello"}).Error
}

func clearAll(db *gorm.DB) error {
	tables := []string{
		"messages", "matches", "user_interests", "user_skills",
		"profiles", "interests", "skills", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range tables {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		for _, table := range tables {
			db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table)
		}
	}

	return nil
}
