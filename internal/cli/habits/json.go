package habits

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/models"
)

func printJSON(ctx *cli.Context, habits []models.Habit) error {
	if habits == nil {
		habits = []models.Habit{}
	}
	data, err := json.MarshalIndent(habits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal habits: %w", err)
	}
	ctx.Println(string(data))
	return nil
}
