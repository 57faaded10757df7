// Package console is the line-oriented text front end of the hub. It reads
// commands from an io.Reader, runs them against a hub.Hub and writes the
// rendered results to an io.Writer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/alchemy"
	"github.com/cory-johannsen/nightcourt/internal/game/character"
	"github.com/cory-johannsen/nightcourt/internal/game/combat"
	"github.com/cory-johannsen/nightcourt/internal/game/command"
	"github.com/cory-johannsen/nightcourt/internal/game/inventory"
	"github.com/cory-johannsen/nightcourt/internal/game/meditation"
	"github.com/cory-johannsen/nightcourt/internal/game/social"
	"github.com/cory-johannsen/nightcourt/internal/game/syndicate"
	"github.com/cory-johannsen/nightcourt/internal/game/trivia"
	"github.com/cory-johannsen/nightcourt/internal/hub"
)

const prompt = "> "

// Options configures a Console.
type Options struct {
	// Registry defaults to command.DefaultRegistry().
	Registry *command.Registry
	// Notices carries hub notices raised outside a command.
	Notices <-chan hub.Notice
	// Missions carries missions that became ready for debrief.
	Missions <-chan syndicate.ActiveMission
	// ConflictSettle is the pause between a confrontation's resolution and
	// the return to the quest.
	ConflictSettle time.Duration
	// Color enables ANSI styling.
	Color  bool
	Logger *zap.Logger
}

// Console drives one hub from a text stream.
type Console struct {
	hub    *hub.Hub
	reg    *command.Registry
	opts   Options
	logger *zap.Logger

	outMu sync.Mutex
	out   io.Writer
}

type handlerFunc func(c *Console, ctx context.Context, args command.ParseResult) (quit bool)

var handlers map[string]handlerFunc

func init() {
	handlers = map[string]handlerFunc{
		command.HandlerQuest:        (*Console).showQuest,
		command.HandlerChoose:       (*Console).choose,
		command.HandlerLore:         (*Console).lore,
		command.HandlerWhisper:      (*Console).whisper,
		command.HandlerDossier:      (*Console).dossier,
		command.HandlerStatus:       (*Console).status,
		command.HandlerLearn:        (*Console).learn,
		command.HandlerOrigin:       (*Console).origin,
		command.HandlerArchetype:    (*Console).archetype,
		command.HandlerName:         (*Console).name,
		command.HandlerRelations:    (*Console).relations,
		command.HandlerAchievements: (*Console).achievements,
		command.HandlerCheckpoint:   (*Console).checkpoint,
		command.HandlerFight:        (*Console).fight,
		command.HandlerAttack:       (*Console).attack,
		command.HandlerDefend:       (*Console).defend,
		command.HandlerConflict:     (*Console).conflict,
		command.HandlerArgue:        (*Console).argue,
		command.HandlerShop:         (*Console).shop,
		command.HandlerBuy:          (*Console).buy,
		command.HandlerInventory:    (*Console).inventory,
		command.HandlerUse:          (*Console).use,
		command.HandlerIngredients:  (*Console).ingredients,
		command.HandlerBrew:         (*Console).brew,
		command.HandlerMissions:     (*Console).missions,
		command.HandlerAgents:       (*Console).agents,
		command.HandlerHire:         (*Console).hire,
		command.HandlerSend:         (*Console).send,
		command.HandlerDebrief:      (*Console).debrief,
		command.HandlerRituals:      (*Console).rituals,
		command.HandlerPerform:      (*Console).perform,
		command.HandlerSanctum:      (*Console).sanctum,
		command.HandlerUpgrade:      (*Console).upgrade,
		command.HandlerTrivia:       (*Console).trivia,
		command.HandlerHint:         (*Console).hint,
		command.HandlerAnswer:       (*Console).answer,
		command.HandlerDecode:       (*Console).decode,
		command.HandlerBreathe:      (*Console).breathe,
		command.HandlerMeditate:     (*Console).meditate,
		command.HandlerQuit:         (*Console).quit,
		command.HandlerHelp:         (*Console).help,
	}
}

// New creates a Console over h writing to out.
//
// Precondition: h, out and opts.Logger must be non-nil.
func New(h *hub.Hub, out io.Writer, opts Options) *Console {
	if h == nil || out == nil || opts.Logger == nil {
		panic("console: New precondition violated: nil collaborator")
	}
	if opts.Registry == nil {
		opts.Registry = command.DefaultRegistry()
	}
	return &Console{hub: h, reg: opts.Registry, opts: opts, logger: opts.Logger, out: out}
}

// Run greets the player and executes commands read from in until the player
// quits, in is exhausted, or ctx is cancelled. Notices and ready missions are
// written as they arrive.
//
// Postcondition: Returns nil on quit or end of input, ctx.Err() on cancellation,
// or the read error.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.pump(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	c.write(Colorize(BrightRed, "NIGHTCOURT") + Colorize(Dim, "  type 'help' for commands") + "\n")
	c.showQuest(ctx, command.ParseResult{})
	c.write(prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			return err
		case line := <-lines:
			if c.Execute(ctx, line) {
				return nil
			}
			c.write(prompt)
		}
	}
}

// Execute runs one command line and reports whether the player asked to quit.
func (c *Console) Execute(ctx context.Context, line string) (quit bool) {
	pr := command.Parse(line)
	if pr.Command == "" {
		return false
	}
	cmd, ok := c.reg.Resolve(pr.Command)
	if !ok {
		c.fail(fmt.Sprintf("Unknown command %q. Type 'help' for commands.", pr.Command))
		return false
	}
	h, ok := handlers[cmd.Handler]
	if !ok {
		c.logger.Error("command has no handler", zap.String("command", cmd.Name), zap.String("handler", cmd.Handler))
		c.fail("That command is not available.")
		return false
	}
	c.logger.Debug("command", zap.String("command", cmd.Name), zap.Strings("args", pr.Args))
	return h(c, ctx, pr)
}

// pump writes notices and mission alerts until ctx is done.
func (c *Console) pump(ctx context.Context) {
	notices, missions := c.opts.Notices, c.opts.Missions
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-notices:
			if !ok {
				notices = nil
				continue
			}
			var b strings.Builder
			for _, l := range n.Lines {
				b.WriteString(Colorize(noticeColor(n.Source), l) + "\n")
			}
			c.write(b.String())
		case am, ok := <-missions:
			if !ok {
				missions = nil
				continue
			}
			title := am.MissionID
			if m, ok := c.hub.Mission(am.MissionID); ok {
				title = m.Title
			}
			c.write(Colorf(BrightGreen, "Agent %s has returned from %s. Type 'debrief %s'.", am.AgentID, title, am.MissionID) + "\n")
		}
	}
}

func noticeColor(source string) string {
	switch source {
	case "combat":
		return Red
	case "achievement", "ledger":
		return BrightGreen
	case "lore":
		return BrightYellow
	default:
		return BrightCyan
	}
}

func (c *Console) write(s string) {
	if !c.opts.Color {
		s = StripANSI(s)
	}
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Warn("console write failed", zap.Error(err))
	}
}

func (c *Console) fail(msg string) {
	c.write(Colorize(Red, msg) + "\n")
}

// index reads the single argument as a list position.
func (c *Console) index(args command.ParseResult, what string) (int, bool) {
	if len(args.Args) != 1 {
		c.fail(fmt.Sprintf("Which %s? Give its number.", what))
		return 0, false
	}
	i, err := args.Position(0)
	if err != nil {
		c.fail(fmt.Sprintf("%q is not a %s number.", args.Args[0], what))
		return 0, false
	}
	return i, true
}

func (c *Console) showQuest(_ context.Context, _ command.ParseResult) bool {
	c.write(RenderQuest(c.hub.CurrentQuest()))
	return false
}

func (c *Console) choose(ctx context.Context, args command.ParseResult) bool {
	i, ok := c.index(args, "choice")
	if !ok {
		return false
	}
	if _, open := c.hub.Conflict(); open {
		c.fail("You are in a confrontation. Use 'argue <n>'.")
		return false
	}
	choice, err := c.hub.ChooseQuest(i)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorize(Magenta, choice.NarrativeLog) + "\n")
	if conflict, open := c.hub.Conflict(); open {
		c.write(RenderConflict(conflict))
		return false
	}
	return c.showQuest(ctx, args)
}

func (c *Console) lore(context.Context, command.ParseResult) bool {
	c.write(RenderLore(c.hub.Lore()))
	return false
}

func (c *Console) whisper(ctx context.Context, _ command.ParseResult) bool {
	c.write(Colorize(Magenta, c.hub.Whisper(ctx)) + "\n")
	return false
}

func (c *Console) dossier(ctx context.Context, args command.ParseResult) bool {
	if args.RawArgs == "" {
		c.fail("Ask about whom? dossier <query>")
		return false
	}
	text, err := c.hub.Dossier(ctx, args.RawArgs)
	if errors.Is(err, hub.ErrInsufficientShards) {
		c.fail(fmt.Sprintf("Insufficient Soul Shards to access the Oracle. A dossier costs %d.", c.hub.OracleCost()))
		return false
	}
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorize(BrightCyan, text) + "\n")
	return false
}

func (c *Console) status(context.Context, command.ParseResult) bool {
	c.write(RenderProfile(c.hub.Identity(), c.hub.Profile()))
	return false
}

func (c *Console) learn(_ context.Context, args command.ParseResult) bool {
	var ab character.Ability
	for _, a := range character.AllAbilities {
		if strings.EqualFold(string(a), args.RawArgs) {
			ab = a
		}
	}
	if ab == "" {
		c.fail("Learn which ability? " + joinAbilities())
		return false
	}
	before, _ := c.hub.Profile().Abilities.Get(ab)
	if !c.hub.LearnAbility(ab) {
		if before >= character.MaxAbilityRating {
			c.fail(fmt.Sprintf("%s is already mastered.", ab))
		} else {
			c.fail(fmt.Sprintf("Raising %s costs %d XP.", ab, character.AbilityCost(before)))
		}
		return false
	}
	c.write(Colorf(BrightGreen, "%s rises to %d.", ab, before+1) + "\n")
	return false
}

func joinAbilities() string {
	names := make([]string, len(character.AllAbilities))
	for i, a := range character.AllAbilities {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

func (c *Console) origin(_ context.Context, args command.ParseResult) bool {
	origins := c.hub.Tables().Origins
	if args.RawArgs == "" {
		c.write(RenderOrigins(origins))
		return false
	}
	name := args.RawArgs
	for _, o := range origins {
		if strings.EqualFold(o.Name, name) {
			name = o.Name
		}
	}
	o, err := c.hub.ChooseOrigin(name)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorf(BrightYellow, "You are the %s.", o.Title) + "\n")
	return false
}

func (c *Console) archetype(_ context.Context, args command.ParseResult) bool {
	a := character.Archetype(args.RawArgs)
	for _, known := range []character.Archetype{character.Vampire, character.Werewolf, character.Warlock, character.Syndicate, character.Hunter} {
		if strings.EqualFold(string(known), args.RawArgs) {
			a = known
		}
	}
	if err := c.hub.SetArchetype(a); err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorf(BrightYellow, "Your lineage is %s.", a) + "\n")
	return false
}

func (c *Console) name(_ context.Context, args command.ParseResult) bool {
	if args.RawArgs == "" {
		c.fail("name <name>")
		return false
	}
	c.hub.Rename(args.RawArgs)
	c.write(fmt.Sprintf("You shall be known as %s.\n", args.RawArgs))
	return false
}

func (c *Console) relations(context.Context, command.ParseResult) bool {
	c.write(RenderRelations(c.hub.NPCs(), c.hub.Relationships()))
	return false
}

func (c *Console) achievements(context.Context, command.ParseResult) bool {
	c.write(RenderAchievements(c.hub.Achievements()))
	return false
}

func (c *Console) checkpoint(ctx context.Context, _ command.ParseResult) bool {
	rep, err := c.hub.Checkpoint(ctx)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(RenderCheckpoint(rep))
	return false
}

func (c *Console) fight(ctx context.Context, _ command.ParseResult) bool {
	e, intro, err := c.hub.StartEncounter(ctx)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	for _, l := range e.Log() {
		c.write(Colorize(BrightRed, l) + "\n")
	}
	c.write(Colorize(Magenta, intro) + "\n")
	c.write(RenderStandoff(e))
	return false
}

func (c *Console) act(ctx context.Context, a combat.Action) bool {
	turns, err := c.hub.Act(ctx, a)
	if len(turns) > 0 {
		c.write(RenderTurns(turns))
	}
	if err != nil {
		c.fail(err.Error())
		return false
	}
	if e, ok := c.hub.Encounter(); ok && e.State() != combat.Resolved {
		c.write(RenderStandoff(e))
	}
	return false
}

func (c *Console) attack(ctx context.Context, _ command.ParseResult) bool {
	return c.act(ctx, combat.Attack)
}

func (c *Console) defend(ctx context.Context, _ command.ParseResult) bool {
	return c.act(ctx, combat.Defend)
}

func (c *Console) conflict(context.Context, command.ParseResult) bool {
	conflict, ok := c.hub.Conflict()
	if !ok {
		c.write(empty("No one is confronting you."))
		return false
	}
	c.write(RenderConflict(conflict))
	return false
}

func (c *Console) argue(ctx context.Context, args command.ParseResult) bool {
	i, ok := c.index(args, "argument")
	if !ok {
		return false
	}
	out, err := c.hub.ChooseInConflict(i)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(RenderConflictOutcome(out))
	if out.Status == social.InProgress {
		if conflict, ok := c.hub.Conflict(); ok {
			c.write(RenderConflict(conflict))
		}
		return false
	}
	if d := c.opts.ConflictSettle; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return false
		}
	}
	if conflict, open := c.hub.Conflict(); open {
		c.write(RenderConflict(conflict))
		return false
	}
	return c.showQuest(ctx, args)
}

func (c *Console) shop(context.Context, command.ParseResult) bool {
	c.write(RenderShop(c.hub.Shop(), c.hub.Profile().Sovereigns))
	return false
}

func (c *Console) buy(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) != 1 {
		c.fail("buy <item_id>")
		return false
	}
	item, err := c.hub.Buy(args.Args[0])
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorf(BrightGreen, "You bought a %s.", item.Def.Name) + "\n")
	return false
}

func (c *Console) inventory(context.Context, command.ParseResult) bool {
	c.write(RenderInventory(c.hub.Inventory()))
	return false
}

func (c *Console) use(_ context.Context, args command.ParseResult) bool {
	i, ok := c.index(args, "item")
	if !ok {
		return false
	}
	items := c.hub.Inventory()
	if i >= len(items) {
		c.fail(fmt.Sprintf("You carry only %d items.", len(items)))
		return false
	}
	item, consumed, err := c.hub.UseItem(items[i].InstanceID)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	if !consumed {
		c.write(fmt.Sprintf("You turn the %s over in your hands. Nothing happens.\n", item.Def.Name))
		return false
	}
	p := c.hub.Profile()
	c.write(Colorf(BrightGreen, "You use the %s. HP %d/%d.", item.Def.Name, p.HP, p.MaxHP) + "\n")
	return false
}

func (c *Console) ingredients(context.Context, command.ParseResult) bool {
	c.write(RenderIngredients(c.hub.Ingredients(), c.hub.BrewCost()))
	return false
}

func (c *Console) brew(ctx context.Context, args command.ParseResult) bool {
	ids, err := args.Ints()
	var argErr *command.ArgError
	if errors.As(err, &argErr) {
		c.fail(fmt.Sprintf("%q is not an ingredient number.", argErr.Arg))
		return false
	}
	res, err := c.hub.Brew(ids)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(RenderBrew(res))
	if res.Kind == alchemy.Mutation {
		return c.showQuest(ctx, args)
	}
	return false
}

func (c *Console) missions(context.Context, command.ParseResult) bool {
	ms := c.hub.Missions()
	views := make([]MissionView, len(ms))
	for i, m := range ms {
		rem, active := c.hub.Remaining(m.ID)
		views[i] = MissionView{Mission: m, Active: active, Remaining: rem}
	}
	c.write(RenderMissions(views))
	return false
}

func (c *Console) agents(context.Context, command.ParseResult) bool {
	c.write(RenderAgents(c.hub.Agents(), c.hub.ForHire()))
	return false
}

func (c *Console) hire(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) != 1 {
		c.fail("hire <agent_id>")
		return false
	}
	if !c.hub.Hire(args.Args[0]) {
		c.fail("That agent cannot be hired.")
		return false
	}
	c.write(Colorf(BrightGreen, "%s joins your network.", args.Args[0]) + "\n")
	return false
}

func (c *Console) send(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) != 2 {
		c.fail("send <mission_id> <agent_id>")
		return false
	}
	if !c.hub.StartMission(args.Args[0], args.Args[1]) {
		c.fail("The operation cannot start. Check the agent's specialty and availability.")
		return false
	}
	m, _ := c.hub.Mission(args.Args[0])
	c.write(fmt.Sprintf("%s is on the way. Expect word in %s.\n", args.Args[1], m.Duration()))
	return false
}

func (c *Console) debrief(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) != 1 {
		c.fail("debrief <mission_id>")
		return false
	}
	res := c.hub.ResolveMission(args.Args[0])
	if !res.Resolved {
		c.fail("There is nothing to debrief yet.")
		return false
	}
	if res.Success {
		c.write(Colorf(BrightGreen, "Mission accomplished. %s", res.Rewards) + "\n")
	} else {
		c.write(Colorf(Yellow, "Mission failed. %s", res.Rewards) + "\n")
	}
	return false
}

func (c *Console) rituals(context.Context, command.ParseResult) bool {
	c.write(RenderRituals(c.hub.Rituals()))
	return false
}

func (c *Console) perform(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) != 1 {
		c.fail("perform <ritual_id>")
		return false
	}
	d, err := c.hub.PerformRitual(args.Args[0])
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorf(BrightMagenta, "%s takes hold. %s", d.Buff.Name, d.Buff.Description) + "\n")
	return false
}

func (c *Console) sanctum(context.Context, command.ParseResult) bool {
	c.write(RenderSanctum(c.hub.SanctumModules()))
	return false
}

func (c *Console) upgrade(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) != 1 {
		c.fail("upgrade <module_id>")
		return false
	}
	st, err := c.hub.UpgradeModule(args.Args[0])
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorf(BrightGreen, "%s is now level %d.", st.Name, st.Level) + "\n")
	return false
}

func (c *Console) trivia(ctx context.Context, args command.ParseResult) bool {
	if args.RawArgs == "" {
		if r, ok := c.hub.Trivia(); ok && !r.Answered() {
			c.write(RenderTrivia(r))
			return false
		}
	}
	r, err := c.hub.StartTrivia(ctx, args.RawArgs)
	if errors.Is(err, trivia.ErrUnknownCategory) {
		c.fail("Choose a category: " + strings.Join(trivia.Categories, ", "))
		return false
	}
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(RenderTrivia(r))
	return false
}

func (c *Console) hint(context.Context, command.ParseResult) bool {
	struck, err := c.hub.TriviaHint()
	if errors.Is(err, trivia.ErrInsufficientShards) {
		c.fail(fmt.Sprintf("A hint costs %s.", inventory.FormatShards(trivia.HintCost)))
		return false
	}
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(Colorf(Magenta, "The cipher burns away option %d.", struck+1) + "\n")
	if r, ok := c.hub.Trivia(); ok {
		c.write(RenderTrivia(r))
	}
	return false
}

func (c *Console) answer(_ context.Context, args command.ParseResult) bool {
	i, ok := c.index(args, "option")
	if !ok {
		return false
	}
	res, err := c.hub.AnswerTrivia(i)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(RenderTriviaResult(res))
	return false
}

func (c *Console) decode(context.Context, command.ParseResult) bool {
	res := c.hub.DecodeGlyph()
	c.write(Colorize(BrightCyan, res.Message()) + "\n")
	return false
}

func (c *Console) breathe(_ context.Context, args command.ParseResult) bool {
	if len(args.Args) == 0 {
		if elapsed, phase, ok := c.hub.Breathing(); ok {
			c.write(fmt.Sprintf("%s. %s into the exercise.\n", phase, elapsed.Truncate(time.Second)))
			return false
		}
		if err := c.hub.StartBreathing(); err != nil {
			c.fail(err.Error())
			return false
		}
		c.write(Colorize(Cyan, "Breathe in for 4, hold for 2, out for 4. Every full cycle restores a Soul Shard. breathe stop to finish.") + "\n")
		return false
	}
	if !strings.EqualFold(args.Args[0], "stop") {
		c.fail("breathe [stop]")
		return false
	}
	s, err := c.hub.StopBreathing()
	if err != nil {
		c.fail(err.Error())
		return false
	}
	if s.Cycles == 0 {
		c.write("The exercise ends before a full cycle. Nothing is restored.\n")
		return false
	}
	c.write(Colorf(BrightGreen, "Exercise complete. You earned %s!", inventory.FormatShards(s.Cycles)) + "\n")
	return false
}

func (c *Console) meditate(ctx context.Context, args command.ParseResult) bool {
	if args.RawArgs == "" {
		c.write(RenderMeditations())
		return false
	}
	t, text, err := c.hub.Meditate(ctx, args.RawArgs)
	if err != nil {
		c.fail(err.Error())
		return false
	}
	c.write(header(t.Title))
	c.write(Colorize(Magenta, text) + "\n")
	c.write(Colorf(BrightGreen, "Meditation complete. +%d XP.", meditation.GuidedXP) + "\n")
	return false
}

func (c *Console) quit(context.Context, command.ParseResult) bool {
	c.write("The night swallows you.\n")
	return true
}

func (c *Console) help(context.Context, command.ParseResult) bool {
	c.write(RenderHelp(c.reg))
	return false
}
