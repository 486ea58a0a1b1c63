package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploywatch/deploywatch/internal/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Refresh once and print the current deployment status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("format", "", "Output format (json)")
	statusCmd.Flags().String("service", "", "Limit output to one service (vercel or netlify)")
}

func runStatus(cmd *cobra.Command, _ []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	if len(eng.Accounts()) == 0 {
		return fmt.Errorf("no accounts configured, add one with 'deploywatch accounts add'")
	}

	eng.RefreshAll(cmd.Context())
	if err := eng.LastError(); err != nil {
		fmt.Printf("warning: %v\n", err)
	}

	projects := eng.Projects()
	if serviceName, _ := cmd.Flags().GetString("service"); serviceName != "" {
		service := domain.Service(serviceName)
		if !service.Valid() {
			return fmt.Errorf("unknown service %q, expected one of: vercel, netlify", serviceName)
		}
		projects = eng.ProjectsByService(service)
	}

	if format, _ := cmd.Flags().GetString("format"); format == "json" {
		output, err := json.MarshalIndent(projects, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Overall: %s\n\n", overallLabel(eng.OverallStatus()))
	for _, project := range projects {
		fmt.Println(formatProject(project))
	}
	return nil
}

func overallLabel(status domain.OverallStatus) string {
	switch status {
	case domain.OverallBuilding:
		return "building"
	case domain.OverallError:
		return "failing"
	case domain.OverallReady:
		return "ready"
	default:
		return "idle"
	}
}

func formatProject(project domain.Project) string {
	deployment, ok := project.LatestDeployment()
	if !ok {
		return fmt.Sprintf("%-8s  %-24s  no deployments", project.Service, project.Name)
	}

	line := fmt.Sprintf("%-8s  %-24s  %-9s  %s",
		project.Service, project.Name,
		deployment.Status.DisplayName(),
		deployment.CreatedAt.Local().Format(time.DateTime))
	if deployment.Branch != "" {
		line += "  " + deployment.Branch
	}
	if duration := deployment.FormattedBuildDuration(); duration != "" {
		line += "  (" + duration + ")"
	}
	return line
}
