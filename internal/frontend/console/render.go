package console

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cory-johannsen/nightcourt/internal/content"
	"github.com/cory-johannsen/nightcourt/internal/game/alchemy"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/checkpoint"
	"github.com/cory-johannsen/nightcourt/internal/game/combat"
	"github.com/cory-johannsen/nightcourt/internal/game/command"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/cory-johannsen/nightcourt/internal/game/meditation"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
	"github.com/cory-johannsen/nightcourt/internal/game/quest"
	"github.com/cory-johannsen/nightcourt/internal/game/ritual"
	"github.com/cory-johannsen/nightcourt/internal/game/sanctum"
	"github.com/cory-johannsen/nightcourt/internal/game/social"
	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
	"github.com/cory-johannsen/nightcourt/internal/hub"
)

var categoryOrder = []string{
	command.CategoryStory,
	command.CategoryCharacter,
	command.CategoryCombat,
	command.CategorySocial,
	command.CategoryMarket,
	command.CategoryAlchemy,
	command.CategorySyndicate,
	command.CategoryOccult,
	command.CategoryDiversion,
	command.CategorySystem,
}

func header(title string) string {
	return Colorize(BrightWhite, "=== "+title+" ===") + "\n"
}

func empty(text string) string {
	return Colorize(Dim, "  "+text) + "\n"
}

// RenderHelp lists the registry's commands grouped by category.
func RenderHelp(r *command.Registry) string {
	var b strings.Builder
	b.WriteString(header("Commands"))
	cats := r.CommandsByCategory()
	for _, cat := range categoryOrder {
		cmds := cats[cat]
		if len(cmds) == 0 {
			continue
		}
		b.WriteString(Colorize(Cyan, strings.ToUpper(cat[:1])+cat[1:]) + "\n")
		for _, c := range cmds {
			usage := c.Usage
			if usage == "" {
				usage = c.Name
			}
			line := fmt.Sprintf("  %-30s %s", usage, c.Help)
			if len(c.Aliases) > 0 {
				line += Colorf(Dim, " (%s)", strings.Join(c.Aliases, ", "))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// RenderQuest shows the current quest with numbered choices.
func RenderQuest(d *quest.Def, ok bool) string {
	if !ok {
		return empty("The story has gone quiet. No quest awaits you.")
	}
	var b strings.Builder
	b.WriteString(Colorize(BrightYellow, d.Title) + "\n")
	b.WriteString(Colorize(White, d.Description) + "\n")
	if d.Terminal() {
		b.WriteString(empty("This thread of the story has ended."))
		return b.String()
	}
	for i, c := range d.Choices {
		fmt.Fprintf(&b, "  %s %s\n", Colorf(BrightCyan, "[%d]", i+1), c.Text)
	}
	return b.String()
}

// RenderProfile shows the character sheet.
func RenderProfile(id character.Identity, p character.Profile) string {
	var b strings.Builder
	name := id.Name
	if name == "" {
		name = "Nameless"
	}
	title := string(id.Archetype)
	if id.Origin != "" {
		title = strings.TrimSpace(title + ", " + id.Origin)
	}
	b.WriteString(header(name))
	if title != "" {
		b.WriteString(Colorize(Dim, "  "+title) + "\n")
	}
	fmt.Fprintf(&b, "  Level %d  XP %s/%s  HP %d/%d\n",
		p.Level, humanize.Comma(int64(p.XP)), humanize.Comma(int64(p.XPToNextLevel)), p.HP, p.MaxHP)
	fmt.Fprintf(&b, "  %s  %s\n", inventory.FormatSovereigns(p.Sovereigns), inventory.FormatShards(p.SoulShards))
	b.WriteString(Colorize(Cyan, "  Attributes:"))
	for _, a := range character.AllAttributes {
		v, _ := p.Attributes.Get(a)
		fmt.Fprintf(&b, " %s %d", a, v)
	}
	b.WriteString("\n")
	b.WriteString(Colorize(Cyan, "  Abilities:"))
	for _, a := range character.AllAbilities {
		v, _ := p.Abilities.Get(a)
		fmt.Fprintf(&b, " %s %d", a, v)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Reputation: %s %d\n", p.Reputation.Type, p.Reputation.Value)
	for _, a := range p.Buffs {
		fmt.Fprintf(&b, "  %s (%d left)\n", Colorize(BrightMagenta, a.Def.Name), a.Remaining)
	}
	return b.String()
}

// RenderRelations lists every NPC's standing in content order.
func RenderRelations(defs []*npc.Def, rel map[string]npc.Relationship) string {
	var b strings.Builder
	b.WriteString(header("Relations"))
	for _, d := range defs {
		r := rel[d.ID]
		color := White
		switch r.Status {
		case npc.Loyal:
			color = Green
		case npc.Rival:
			color = Yellow
		case npc.Enemy:
			color = Red
		}
		fmt.Fprintf(&b, "  %-22s %s  %s\n", d.Name, Colorf(color, "%-8s", r.Status), Colorize(Dim, r.Mood))
	}
	return b.String()
}

// RenderOrigins lists the origins a new character can choose from.
func RenderOrigins(origins []character.Origin) string {
	var b strings.Builder
	b.WriteString(header("Origins"))
	for _, o := range origins {
		fmt.Fprintf(&b, "  %s\n    %s\n", Colorize(BrightYellow, o.Name), o.Description)
	}
	return b.String()
}

// RenderAchievements lists achievements, unlocked first.
func RenderAchievements(all []hub.AchievementStatus) string {
	var b strings.Builder
	b.WriteString(header("Achievements"))
	sorted := make([]hub.AchievementStatus, len(all))
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Unlocked && !sorted[j].Unlocked })
	for _, a := range sorted {
		if a.Unlocked {
			fmt.Fprintf(&b, "  %s  %s\n", Colorize(BrightGreen, a.Name), a.BonusDescription)
			continue
		}
		fmt.Fprintf(&b, "  %s\n", Colorf(Dim, "%s (%s %d)", a.Name, a.Reputation, a.Threshold))
	}
	return b.String()
}

// RenderLore lists collected lore fragments.
func RenderLore(frags []content.LoreFragment) string {
	var b strings.Builder
	b.WriteString(header("Lore"))
	if len(frags) == 0 {
		b.WriteString(empty("You have uncovered no secrets yet."))
		return b.String()
	}
	for _, f := range frags {
		fmt.Fprintf(&b, "  %s\n", Colorize(BrightYellow, f.Title))
		if f.Content != "" {
			fmt.Fprintf(&b, "    %s\n", f.Content)
		}
	}
	return b.String()
}

// RenderCheckpoint shows a checkpoint report.
func RenderCheckpoint(rep checkpoint.Report) string {
	var b strings.Builder
	b.WriteString(header("Checkpoint " + rep.Timestamp.Format("2006-01-02 15:04")))
	fmt.Fprintf(&b, "  Level %+d  Sovereigns %+d  Soul Shards %+d  Dominance %+d\n",
		rep.LevelDelta, rep.SovereignsDelta, rep.SoulShardsDelta, rep.DominanceDelta)
	for _, c := range rep.RelationshipChanges {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	b.WriteString(Colorize(BrightMagenta, rep.OracleAssessment) + "\n")
	return b.String()
}

// RenderStandoff shows both combatants.
func RenderStandoff(e *combat.Encounter) string {
	p, foe := e.PlayerStanding(), e.Enemy()
	return fmt.Sprintf("  You %s   %s %s\n",
		Colorf(Green, "%d/%d", p.HP, p.MaxHP),
		foe.Name, Colorf(Red, "%d/%d", foe.HP, foe.MaxHP))
}

// RenderTurns shows the lines of each resolved combat turn.
func RenderTurns(turns []combat.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		for _, l := range t.Lines {
			b.WriteString("  " + l + "\n")
		}
		for _, id := range t.Expired {
			b.WriteString(Colorf(Dim, "  %s has worn off.", id) + "\n")
		}
		if t.State == combat.Resolved {
			if t.Outcome == combat.Win {
				b.WriteString(Colorize(BrightGreen, "VICTORY") + "\n")
			} else {
				b.WriteString(Colorize(BrightRed, "DEFEAT") + "\n")
			}
		}
	}
	return b.String()
}

// RenderConflict shows an open confrontation with its remaining choices.
func RenderConflict(c *social.Conflict) string {
	d := c.Def()
	var b strings.Builder
	b.WriteString(Colorize(BrightYellow, d.Title) + "\n")
	b.WriteString(Colorize(White, d.Description) + "\n")
	fmt.Fprintf(&b, "  Objective: %s  Progress %d/%d\n", d.Objective, c.Progress(), d.SuccessThreshold)
	for i, ch := range d.Choices {
		tag := Colorf(BrightCyan, "[%d]", i+1)
		text := ch.Text
		if c.Used(i) {
			tag = Colorize(Dim, "[-]")
			text = Colorize(Dim, text)
		}
		if dc := ch.DiceCheck; dc != nil && !c.Used(i) {
			text += Colorf(Dim, " (%s + %s vs %d)", dc.Attribute, dc.Ability, dc.Difficulty)
		}
		fmt.Fprintf(&b, "  %s %s\n", tag, text)
	}
	return b.String()
}

// RenderConflictOutcome shows one argument's result and, once the conflict
// is over, its resolution.
func RenderConflictOutcome(out social.ChoiceOutcome) string {
	var b strings.Builder
	for _, l := range out.Lines {
		b.WriteString("  " + l + "\n")
	}
	switch out.Status {
	case social.Succeeded:
		b.WriteString(Colorize(BrightGreen, "CONFLICT WON") + "\n")
	case social.Failed:
		b.WriteString(Colorize(BrightRed, "CONFLICT LOST") + "\n")
	}
	if out.Resolution != "" {
		b.WriteString(Colorize(White, out.Resolution) + "\n")
	}
	return b.String()
}

// RenderShop lists the market's stock.
func RenderShop(items []*inventory.ItemDef, sovereigns int) string {
	var b strings.Builder
	b.WriteString(header("Black Market"))
	for _, d := range items {
		fmt.Fprintf(&b, "  %-16s %-18s %s\n    %s\n", d.ID, Colorize(BrightWhite, d.Name), inventory.FormatSovereigns(d.Cost), d.Description)
	}
	fmt.Fprintf(&b, "  You carry %s.\n", inventory.FormatSovereigns(sovereigns))
	return b.String()
}

// RenderInventory lists carried items numbered for the use command.
func RenderInventory(items []inventory.Item) string {
	var b strings.Builder
	b.WriteString(header("Inventory"))
	if len(items) == 0 {
		b.WriteString(empty("You carry nothing of note."))
		return b.String()
	}
	for i, it := range items {
		fmt.Fprintf(&b, "  %s %s [%s]\n", Colorf(BrightCyan, "[%d]", i+1), Colorize(BrightWhite, it.Def.Name), it.Def.Kind)
	}
	return b.String()
}

// RenderIngredients lists the alchemy ingredients and the brew price.
func RenderIngredients(ings []alchemy.Ingredient, cost int) string {
	var b strings.Builder
	b.WriteString(header("Ingredients"))
	for _, ing := range ings {
		fmt.Fprintf(&b, "  %s %s\n    %s\n", Colorf(BrightCyan, "[%d]", ing.ID), Colorize(BrightWhite, ing.Name), ing.Description)
	}
	fmt.Fprintf(&b, "  Each experiment costs %s.\n", inventory.FormatShards(cost))
	return b.String()
}

// RenderBrew shows a brew result.
func RenderBrew(r alchemy.Result) string {
	color := White
	switch r.Kind {
	case alchemy.Mutation:
		color = BrightMagenta
	case alchemy.Success:
		color = BrightGreen
	case alchemy.Unstable:
		color = Yellow
	}
	return Colorize(color, r.Message) + "\n"
}

// MissionView is a mission with its current progress for display.
type MissionView struct {
	Mission *syndicate.Mission
	// Active is true while an agent is on the mission.
	Active    bool
	Remaining time.Duration
}

// RenderMissions lists the mission board.
func RenderMissions(views []MissionView) string {
	var b strings.Builder
	b.WriteString(header("Syndicate Operations"))
	for _, v := range views {
		m := v.Mission
		state := Colorize(Dim, "available")
		switch {
		case v.Active && v.Remaining <= 0:
			state = Colorize(BrightGreen, "ready for debrief")
		case v.Active:
			state = Colorf(Yellow, "underway, %s left", v.Remaining.Round(time.Second))
		}
		fmt.Fprintf(&b, "  %-11s %s [%s, %s] %s\n", m.ID, Colorize(BrightWhite, m.Title), m.RequiredSpecialty, m.Duration(), state)
		fmt.Fprintf(&b, "    %s\n", m.Description)
	}
	return b.String()
}

// RenderAgents lists the hired roster and the agents for hire.
func RenderAgents(hired []syndicate.Agent, forHire []syndicate.AgentDef) string {
	var b strings.Builder
	b.WriteString(header("Agents"))
	for _, a := range hired {
		fmt.Fprintf(&b, "  %-10s %-24s %-13s %s\n", a.ID, a.Name, a.Specialty, a.Status)
	}
	if len(forHire) > 0 {
		b.WriteString(Colorize(Cyan, "For hire:") + "\n")
		for _, a := range forHire {
			fmt.Fprintf(&b, "  %-10s %-24s %-13s +%.0f%%  %s\n", a.ID, a.Name, a.Specialty, a.SuccessModifier*100, inventory.FormatSovereigns(a.Cost))
		}
	}
	return b.String()
}

// RenderRituals lists the rituals and their prices.
func RenderRituals(defs []*ritual.Def) string {
	var b strings.Builder
	b.WriteString(header("Rituals"))
	for _, d := range defs {
		fmt.Fprintf(&b, "  %-24s %s  %s\n    %s\n", d.ID, Colorize(BrightMagenta, d.Name),
			inventory.FormatCost(d.Cost.Sovereigns, d.Cost.SoulShards), d.Buff.Description)
	}
	return b.String()
}

// RenderSanctum lists the sanctum modules and their next upgrade.
func RenderSanctum(states []sanctum.State) string {
	var b strings.Builder
	b.WriteString(header("Sanctum"))
	for _, s := range states {
		next := Colorize(Dim, "max level")
		if c, ok := s.NextCost(); ok {
			next = "next: " + inventory.FormatCost(c.Sovereigns, c.SoulShards)
		}
		fmt.Fprintf(&b, "  %-14s %s %d/%d  %s\n    %s\n", s.ID, Colorize(BrightWhite, s.Name), s.Level, s.MaxLevel, next, s.BonusDescription)
	}
	return b.String()
}

// RenderTrivia shows the question with numbered options. The option struck
// by a hint is dimmed.
func RenderTrivia(r *trivia.Round) string {
	q := r.Question()
	struck, _ := r.Struck()
	var b strings.Builder
	b.WriteString(header("Cipher Den: " + q.Category))
	b.WriteString(q.Text + "\n")
	for i, o := range q.Options {
		if i == struck {
			b.WriteString("  " + Colorf(Dim, "[%d] %s (struck)", i+1, o) + "\n")
			continue
		}
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, o)
	}
	if !r.Answered() {
		b.WriteString(empty(fmt.Sprintf("answer <n>, or hint for %s", inventory.FormatShards(trivia.HintCost))))
	}
	return b.String()
}

// RenderTriviaResult reports an answer.
func RenderTriviaResult(res trivia.Result) string {
	if res.Correct {
		return Colorf(BrightGreen, "Correct! +%d XP, +%s.", trivia.RewardXP, inventory.FormatSovereigns(trivia.RewardSovereigns)) + "\n"
	}
	return Colorf(Red, "Incorrect. The answer was %s.", res.Expected) + "\n"
}

// RenderMeditations lists the guided sessions.
func RenderMeditations() string {
	var b strings.Builder
	b.WriteString(header("Guided Meditations"))
	for _, t := range meditation.Topics {
		fmt.Fprintf(&b, "  %-8s %s\n", t.ID, Colorize(Magenta, t.Title))
	}
	b.WriteString(empty(fmt.Sprintf("Each completed session grants %d XP. Breathing cycles grant a Soul Shard each.", meditation.GuidedXP)))
	return b.String()
}
