// Package console is the operator's interactive front end: add a guest,
// view the list with counts, and edit a guest's RSVP details.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"wedding-registry/internal/models"
)

type Config struct {
	BrideName string
	GroomName string
}

type Console struct {
	guests Guests
	cfg    Config
	in     *bufio.Scanner
	out    io.Writer
	log    zerolog.Logger
}

// New creates a console reading commands from in and printing to out
func New(guests Guests, cfg Config, in io.Reader, out io.Writer, log zerolog.Logger) *Console {
	return &Console{
		guests: guests,
		cfg:    cfg,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    log.With().Str("component", "Console").Logger(),
	}
}

// Run loops over the menu until the operator exits, input ends, or ctx is done
func (c *Console) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		c.println("\nCommands:")
		c.println("  1. Add guest")
		c.println("  2. View all guests")
		c.println("  3. Edit guest")
		c.println("  4. Exit")
		c.printf("\nEnter command (1-4): ")

		command, ok := c.readLine()
		if !ok {
			return c.in.Err()
		}

		switch command {
		case "1":
			c.addGuest(ctx)
		case "2":
			c.viewAllGuests(ctx)
		case "3":
			c.editGuest(ctx)
		case "4":
			c.println("Exiting...")
			return nil
		default:
			c.println("Invalid command. Please try again.")
		}
	}
	return ctx.Err()
}

func (c *Console) addGuest(ctx context.Context) {
	name, ok := c.prompt("Enter guest name: ")
	if !ok {
		return
	}
	if name == "" {
		c.println("Please enter a name for the guest")
		return
	}

	c.printf("Guest of:\n  1. %s\n  2. %s\n", c.sideLabel(models.SideMolly), c.sideLabel(models.SideJames))
	choice, ok := c.prompt("Enter choice (1-2): ")
	if !ok {
		return
	}
	var side models.Side
	switch choice {
	case "1":
		side = models.SideMolly
	case "2":
		side = models.SideJames
	default:
		c.println("Please specify whether the guest is coming on behalf of the bride or the groom")
		return
	}

	family, ok := c.promptYesNo("Family member? (y/n): ")
	if !ok {
		return
	}

	guest, err := models.ParseNewGuest(map[string]any{
		"name":   name,
		"side":   string(side),
		"family": family,
	})
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}

	if _, err := c.guests.Save(ctx, guest.Name, guest.Side, guest.Family); err != nil {
		c.report(err, guest.Name, "Error adding guest")
		return
	}
	c.printf("✅ %s added\n", guest.Name)
}

func (c *Console) viewAllGuests(ctx context.Context) {
	guests, err := c.guests.List(ctx)
	if err != nil {
		c.report(err, "", "Error listing guests")
		return
	}
	if len(guests) == 0 {
		c.println("\nNo guests found.")
		return
	}

	c.printf("\n📋 All Guests (%d total):\n", len(guests))
	c.println(strings.Repeat("-", 60))
	for _, g := range guests {
		c.printf("%s: Guest of %s, +%s\n", g.Name, g.Side, plusOneMark(g))
	}
	c.println(strings.Repeat("-", 60))

	stats, err := c.guests.Stats(ctx)
	if err != nil {
		c.report(err, "", "Error loading counts")
		return
	}
	c.println("Summary:")
	for _, side := range models.Sides {
		s := stats.For(side)
		c.printf("%s guest(s) of %s (%d family)\n", headcount(s), c.sideLabel(side), s.Family)
	}
}

func (c *Console) editGuest(ctx context.Context) {
	name, ok := c.prompt("Enter guest name: ")
	if !ok {
		return
	}
	current, err := c.guests.Load(ctx, name)
	if err != nil {
		c.report(err, name, "Error loading guest")
		return
	}

	c.printf("%s, guest of %s", current.Name, c.sideLabel(current.Side))
	if current.Family {
		c.printf(", family")
	}
	c.println()

	fields := map[string]any{
		"name":   current.Name,
		"side":   string(current.Side),
		"family": current.Family,
	}

	diet, ok := c.promptDiet("Dietary restrictions (enter 'none' if not applicable): ")
	if !ok {
		return
	}
	if diet != nil {
		fields["diet"] = *diet
	}

	answer, ok := c.prompt("Bringing a plus one? (yes/no/unknown): ")
	if !ok {
		return
	}
	switch strings.ToLower(answer) {
	case "yes", "y":
		fields["plusOne"] = true
		companion, ok := c.prompt("Name of the additional guest: ")
		if !ok {
			return
		}
		if companion == "" {
			c.println("Please provide a name for the additional guest")
			return
		}
		fields["plusOneName"] = companion

		companionDiet, ok := c.promptDiet("Dietary restrictions of the additional guest (enter 'none' if not applicable): ")
		if !ok {
			return
		}
		if companionDiet != nil {
			fields["plusOneDiet"] = *companionDiet
		}
	case "no", "n":
		fields["plusOne"] = false
	case "unknown", "":
	default:
		c.println("Please answer yes, no or unknown")
		return
	}

	guest, err := models.ParseGuest(fields)
	if err != nil {
		c.printf("❌ %v\n", err)
		return
	}
	if _, err := c.guests.Update(ctx, guest); err != nil {
		c.report(err, guest.Name, "Error updating guest")
		return
	}
	c.printf("✅ %s updated\n", guest.Name)
}

// report prints err for the operator; only failures that are not domain
// rejections get logged
func (c *Console) report(err error, guest, msg string) {
	if !isRejection(err) {
		c.log.Error().Err(err).Str("guest", guest).Msg(msg)
	}
	c.printf("❌ %s\n", describe(err))
}

// promptDiet returns nil for "none"; a blank answer is refused
func (c *Console) promptDiet(label string) (*string, bool) {
	diet, ok := c.prompt(label)
	if !ok {
		return nil, false
	}
	if diet == "" {
		c.println("Please provide the dietary restrictions (enter 'none' if not applicable)")
		return nil, false
	}
	if strings.EqualFold(diet, "none") {
		return nil, true
	}
	return &diet, true
}

func (c *Console) promptYesNo(label string) (bool, bool) {
	answer, ok := c.prompt(label)
	if !ok {
		return false, false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	c.println("Please answer y or n")
	return false, false
}

func (c *Console) prompt(label string) (string, bool) {
	c.printf("%s", label)
	return c.readLine()
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) sideLabel(side models.Side) string {
	switch side {
	case models.SideMolly:
		if c.cfg.BrideName != "" {
			return c.cfg.BrideName
		}
	case models.SideJames:
		if c.cfg.GroomName != "" {
			return c.cfg.GroomName
		}
	}
	return string(side)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// headcount renders "n" or, while some plus-ones are undecided, "n-m"
func headcount(s models.SideStatistics) string {
	if s.Potential > 0 {
		return fmt.Sprintf("%d-%d", s.Confirmed, s.Confirmed+s.Potential)
	}
	return fmt.Sprintf("%d", s.Confirmed)
}

func plusOneMark(g models.Guest) string {
	switch g.PlusOneStatus() {
	case models.PlusOneYes:
		return "1"
	case models.PlusOneNo:
		return "0"
	default:
		return "1?"
	}
}
