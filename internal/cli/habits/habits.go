package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/julianstephens/smarthabit/internal/api"
	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/dashboard"
	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/validation"
)

type HabitCmd struct {
	List    HabitListCmd    `cmd:"" help:"List habits." default:"1"`
	Add     HabitAddCmd     `cmd:"" help:"Create a habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Change a habit's name, description or tag."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit."`
	Done    HabitDoneCmd    `cmd:"" help:"Mark a habit as done today."`
	Heatmap HabitHeatmapCmd `cmd:"" help:"Show a habit's completion heatmap."`
}

// now is replaced in tests.
var now = time.Now

func fetch(ctx *cli.Context) ([]models.Habit, error) {
	if err := ctx.RequireLogin(); err != nil {
		return nil, err
	}
	return ctx.Habits().List(context.Background())
}

func resolve(ctx *cli.Context, ref string) (models.Habit, error) {
	habits, err := fetch(ctx)
	if err != nil {
		return models.Habit{}, err
	}
	return cli.FindHabit(habits, ref)
}

type HabitListCmd struct {
	Tag  string `help:"Only show habits with this tag (Health, Productivity, Self-Care, Fitness, Learning or All)." default:"All"`
	JSON bool   `help:"Print the habits as JSON."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	tag := models.TagAll
	if !strings.EqualFold(c.Tag, string(models.TagAll)) {
		parsed, err := models.ParseTag(c.Tag)
		if err != nil {
			return err
		}
		tag = parsed
	}

	habits, err := fetch(ctx)
	if errors.Is(err, api.ErrNotAList) {
		ctx.Println(constants.MsgNoHabitsFound)
		return nil
	}
	if err != nil {
		return err
	}

	shown := dashboard.FilterByTag(habits, tag)
	if c.JSON {
		return printJSON(ctx, shown)
	}

	if len(habits) == 0 {
		ctx.Println(constants.MsgNoHabits + ". Create one with 'smarthabit habit add'.")
		return nil
	}
	if len(shown) == 0 {
		ctx.Printf("No %s habits.\n", tag)
		return nil
	}

	today := now()
	w := tabwriter.NewWriter(ctx.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTAG\tSTREAK\tTODAY\tDESCRIPTION")
	for _, h := range shown {
		status := "[ ]"
		if !dashboard.CanMarkDone(h, today) {
			status = "[x]"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d days\t%s\t%s\n", h.ID, h.Name, h.Tag, h.Streak, status, h.Description)
	}
	return w.Flush()
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Tag         string `help:"Tag (Health, Productivity, Self-Care, Fitness, Learning)." required:""`
	Description string `help:"Optional description."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	draft := models.HabitDraft{
		Name:           c.Name,
		Description:    c.Description,
		Tag:            models.Tag(c.Tag),
		ProgressStatus: constants.DefaultProgressStatus,
	}
	if tag, err := models.ParseTag(c.Tag); err == nil {
		draft.Tag = tag
	}
	if err := validation.ValidateDraft(draft); err != nil {
		return err
	}

	if err := ctx.RequireLogin(); err != nil {
		return err
	}
	habit, err := ctx.Habits().Create(context.Background(), draft)
	if err != nil {
		return err
	}
	ctx.Printf("%s (id %d)\n", constants.MsgHabitCreated, habit.ID)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or name."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Tag         *string `help:"New tag."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	patch := models.HabitPatch{Name: c.Name, Description: c.Description}
	if c.Tag != nil {
		tag, err := models.ParseTag(*c.Tag)
		if err != nil {
			return err
		}
		patch.Tag = &tag
	}
	if patch.Empty() {
		return errors.New("nothing to change, use --name, --description or --tag")
	}

	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	updated, err := ctx.Habits().Update(context.Background(), habit.ID, patch)
	if err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Habits().Delete(context.Background(), habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	if !dashboard.CanMarkDone(habit, now()) {
		ctx.Printf("%s is already done today (streak: %d days)\n", habit.Name, habit.Streak)
		return nil
	}

	res, err := ctx.Habits().AddLog(context.Background(), habit.ID)
	if err != nil {
		return err
	}
	msg := res.Detail
	if msg == "" {
		msg = constants.MsgMarkedDone
	}
	ctx.Printf("%s Streak: %d days\n", msg, res.Streak)
	return nil
}

type HabitHeatmapCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitHeatmapCmd) Run(ctx *cli.Context) error {
	habit, err := resolve(ctx, c.Habit)
	if err != nil {
		return err
	}
	hm := dashboard.HabitHeatmap(habit, now())
	ctx.Printf("Activity heatmap: %s\n\n", habit.Name)
	ctx.Printf("%s", hm.Render("#", ".", " "))
	ctx.Printf("\n%d days logged since %s\n", hm.Filled, hm.Start.Format(constants.DateFormat))
	return nil
}
