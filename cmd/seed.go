/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/weanovas/agency-api/config"
	"github.com/weanovas/agency-api/internal/db"
	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/internal/store"
	"github.com/weanovas/agency-api/types"
)

var (
	seedEmail      string
	seedPassword   string
	seedName       string
	seedSampleData bool
)

// seedCmd provisions the initial admin account. There is no public
// signup, so the first admin has to come from here. Re-running with an
// existing email resets that account's password.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedEmail == "" || seedPassword == "" {
			return errors.New("--email and --password are required")
		}

		cfg := config.LoadConfig()
		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer dbConn.Close()

		userRepo := store.NewUserRepository(dbConn)
		userService := services.NewUserService(userRepo)

		user, err := seedAdminUser(cmd.Context(), userRepo, userService)
		if err != nil {
			return fmt.Errorf("seed admin failed: %w", err)
		}
		fmt.Printf("admin user %s ready (id %d)\n", user.Email, user.ID)

		if seedSampleData {
			if err := insertSampleData(cmd.Context(), dbConn); err != nil {
				return fmt.Errorf("seed sample data failed: %w", err)
			}
			fmt.Println("sample content inserted")
		}
		return nil
	},
}

func seedAdminUser(ctx context.Context, repo *store.UserRepository, userService *services.UserService) (types.User, error) {
	existing, err := repo.GetByEmail(ctx, services.NormalizeEmail(seedEmail))
	if err == nil {
		return userService.SetPassword(ctx, existing.ID, seedPassword)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}
	return userService.Create(ctx, seedEmail, seedName, seedPassword, types.RoleAdmin)
}

func insertSampleData(ctx context.Context, dbConn *sql.DB) error {
	projects := store.NewProjectRepository(dbConn)
	testimonials := store.NewTestimonialRepository(dbConn)
	team := store.NewTeamMemberRepository(dbConn)

	sampleProjects := []types.Project{
		{
			Title:       "Harbor Market storefront",
			Description: "Headless commerce build with a custom checkout flow.",
			Tech:        types.StringList{"Go", "Postgres", "Next.js"},
			Link:        "https://example.com/harbor-market",
			Featured:    true,
			Status:      types.StatusActive,
			Order:       0,
		},
		{
			Title:       "Fieldnote mobile app",
			Description: "Offline-first survey app for agricultural crews.",
			Tech:        types.StringList{"React Native", "GraphQL"},
			Link:        "https://example.com/fieldnote",
			Status:      types.StatusActive,
			Order:       1,
		},
	}
	for _, project := range sampleProjects {
		if _, err := projects.Create(ctx, project); err != nil {
			return err
		}
	}

	sampleTestimonials := []types.Testimonial{
		{
			Quote:    "They shipped on time and the site doubled our signups.",
			Author:   "Dana Wells",
			Role:     "CTO",
			Company:  "Wells Logistics",
			Rating:   5,
			Featured: true,
			Status:   types.StatusActive,
		},
		{
			Quote:   "Clear communication from kickoff to launch.",
			Author:  "Omar Haddad",
			Role:    "Founder",
			Company: "Haddad Goods",
			Rating:  4,
			Status:  types.StatusActive,
		},
	}
	for _, testimonial := range sampleTestimonials {
		if _, err := testimonials.Create(ctx, testimonial); err != nil {
			return err
		}
	}

	sampleMembers := []types.TeamMember{
		{
			Name:       "Priya Raman",
			Role:       "Lead Engineer",
			Email:      "priya@example.com",
			Location:   "Lisbon",
			JoinedYear: "2021",
			Bio:        "Backend systems and infrastructure.",
			Skills:     types.StringList{"Go", "Postgres", "Kubernetes"},
			Status:     types.StatusActive,
			Order:      0,
		},
		{
			Name:       "Jonas Meyer",
			Role:       "Design Director",
			Email:      "jonas@example.com",
			Location:   "Berlin",
			JoinedYear: "2019",
			Bio:        "Brand systems and product design.",
			Skills:     types.StringList{"Figma", "Design Systems"},
			Status:     types.StatusActive,
			Order:      1,
		},
	}
	for _, member := range sampleMembers {
		if _, err := team.Create(ctx, member); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedEmail, "email", "", "admin email address")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "admin password")
	seedCmd.Flags().StringVar(&seedName, "name", "Admin", "admin display name")
	seedCmd.Flags().BoolVar(&seedSampleData, "sample-data", false, "insert demo content")
}
