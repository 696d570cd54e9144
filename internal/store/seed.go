package store

import (
	"context"
	"fmt"
	"log"
)

// demoRelievers is the demo roster used for local development and manual
// testing. Mirrors the roster the frontend was built against.
var demoRelievers = []UserDraft{
	{
		Username:      "Emma Thompson",
		Password:      "password123",
		IsReliever:    true,
		Bio:           "Certified counselor with 5 years of experience in stress management and anxiety relief.",
		Skills:        []string{"Active Listening", "Stress Management", "Anxiety Relief"},
		MoodExpertise: []string{"Stressed", "Anxious", "Neutral"},
		Avatar:        "https://api.dicebear.com/7.x/avataaars/svg?seed=Emma",
	},
	{
		Username:      "David Chen",
		Password:      "password123",
		IsReliever:    true,
		Bio:           "Experienced in helping people navigate through difficult emotions and find their inner peace.",
		Skills:        []string{"Emotional Support", "Meditation", "Mindfulness"},
		MoodExpertise: []string{"Sad", "Anxious", "Happy"},
		Avatar:        "https://api.dicebear.com/7.x/avataaars/svg?seed=David",
	},
	{
		Username:      "Sarah Wilson",
		Password:      "password123",
		IsReliever:    true,
		Bio:           "Specializing in positive psychology and helping people maintain their excitement and motivation.",
		Skills:        []string{"Positive Psychology", "Goal Setting", "Motivation"},
		MoodExpertise: []string{"Happy", "Excited", "Neutral"},
		Avatar:        "https://api.dicebear.com/7.x/avataaars/svg?seed=Sarah",
	},
}

// SeedDemoRelievers registers the demo relievers. Intended for fresh
// stores at startup; duplicates are an error because seeding twice means
// the store was not actually fresh.
func SeedDemoRelievers(ctx context.Context, s Store) error {
	for _, draft := range demoRelievers {
		u, err := s.CreateUser(ctx, draft)
		if err != nil {
			return fmt.Errorf("seed reliever %q: %w", draft.Username, err)
		}
		log.Printf("STORE: Seeded demo reliever '%s' (id %d).", u.Username, u.ID)
	}
	return nil
}
