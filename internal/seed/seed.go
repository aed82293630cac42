// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/MasterBhuvnesh/Kisan-Vikas/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the plaintext password every seeded user gets.
const SeedPassword = "Password123!"

var (
	crops = []string{
		"wheat", "rice", "sugarcane", "cotton", "mustard", "maize",
		"chickpea", "soybean", "groundnut", "millet", "tomato", "onion",
		"potato", "chili", "turmeric", "banana", "mango", "pomegranate",
	}

	postTemplates = []string{
		"My %s crop is looking healthy this season.",
		"Harvested the first batch of %s today.",
		"Has anyone tried drip irrigation for %s?",
		"Looking for a good organic fertilizer for %s.",
		"Market price for %s dropped again this week.",
		"Sowed %s early this year, hoping the rains hold.",
		"Sharing a photo of my %s field after the rain.",
		"Which seed variety works best for %s in sandy soil?",
	}

	hindiPostTemplates = []string{
		"मेरी %s की फसल इस मौसम में अच्छी दिख रही है।",
		"आज %s की पहली कटाई की।",
		"क्या किसी ने %s के लिए ड्रिप सिंचाई आज़माई है?",
		"%s के लिए अच्छा जैविक खाद चाहिए।",
	}

	hindiCrops = map[string]string{
		"wheat": "गेहूं", "rice": "धान", "sugarcane": "गन्ना",
		"cotton": "कपास", "mustard": "सरसों", "maize": "मक्का",
	}

	commentTexts = []string{
		"Great progress, keep it up!",
		"Which district are you farming in?",
		"Try neem oil spray, it worked for me.",
		"Prices should recover after the festival season.",
		"बहुत बढ़िया!",
		"मैंने भी यही किस्म बोई है।",
		"How much water does this need per week?",
		"Beautiful field.",
	}
)

// Seeder populates the database with realistic development data.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// ClearAll wipes seeded tables in dependency order.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []interface{}{
		&models.SavedPost{}, &models.Comment{}, &models.Post{}, &models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing table: %w", err)
		}
	}
	return nil
}

// SeedUsers creates n verified users with unique usernames and emails.
func (s *Seeder) SeedUsers(n int) ([]models.User, error) {
	log.Printf("Seeding %d users...", n)

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		username := fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), i)

		user := models.User{
			Username: username,
			Fullname: first + " " + last,
			Email:    username + "@example.com",
			Password: string(hash),
			Verified: true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating user %s: %w", username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates n posts spread across the users. Roughly a third carry
// a Hindi translation and a fifth are image-only.
func (s *Seeder) SeedPosts(users []models.User, n int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to attach posts to")
	}
	log.Printf("Seeding %d posts...", n)

	posts := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		crop := crops[rand.Intn(len(crops))]

		post := models.Post{UserID: author.ID}
		if rand.Intn(5) == 0 {
			url := fmt.Sprintf("/media/images/posts/%d/%d.jpeg", author.ID, time.Now().UnixNano())
			post.ImageURL = &url
		} else {
			content := fmt.Sprintf(postTemplates[rand.Intn(len(postTemplates))], crop)
			post.Content = &content
			if hindiCrop, ok := hindiCrops[crop]; ok && rand.Intn(3) == 0 {
				hindi := fmt.Sprintf(hindiPostTemplates[rand.Intn(len(hindiPostTemplates))], hindiCrop)
				post.ContentHindi = &hindi
			}
		}

		if err := s.db.Create(&post).Error; err != nil {
			return nil, fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// SeedEngagement adds comments and saved-post rows on top of existing posts.
func (s *Seeder) SeedEngagement(users []models.User, posts []models.Post) error {
	if len(users) == 0 || len(posts) == 0 {
		return fmt.Errorf("need users and posts before engagement")
	}
	log.Println("Seeding comments and saved posts...")

	for _, post := range posts {
		for i := 0; i < rand.Intn(4); i++ {
			comment := models.Comment{
				Content: commentTexts[rand.Intn(len(commentTexts))],
				UserID:  users[rand.Intn(len(users))].ID,
				PostID:  post.ID,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
		}
	}

	// Unique (user, post) pairs only; sample without replacement per user.
	for _, user := range users {
		saved := rand.Intn(4)
		perm := rand.Perm(len(posts))
		for i := 0; i < saved && i < len(perm); i++ {
			row := models.SavedPost{UserID: user.ID, PostID: posts[perm[i]].ID}
			if err := s.db.Create(&row).Error; err != nil {
				return fmt.Errorf("saving post for user %d: %w", user.ID, err)
			}
		}
	}
	return nil
}

// Run executes the full seeding pipeline.
func (s *Seeder) Run(numUsers, numPosts int, clean bool) error {
	if clean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(numUsers)
	if err != nil {
		return err
	}
	posts, err := s.SeedPosts(users, numPosts)
	if err != nil {
		return err
	}
	return s.SeedEngagement(users, posts)
}
