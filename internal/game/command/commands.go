// Package command provides the command registry, parser, and built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryStory     = "story"
	CategoryCharacter = "character"
	CategoryCombat    = "combat"
	CategorySocial    = "social"
	CategoryMarket    = "market"
	CategoryAlchemy   = "alchemy"
	CategorySyndicate = "syndicate"
	CategoryOccult    = "occult"
	CategoryDiversion = "diversions"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to hub operations.
const (
	HandlerQuest        = "quest"
	HandlerChoose       = "choose"
	HandlerLore         = "lore"
	HandlerWhisper      = "whisper"
	HandlerDossier      = "dossier"
	HandlerStatus       = "status"
	HandlerLearn        = "learn"
	HandlerOrigin       = "origin"
	HandlerArchetype    = "archetype"
	HandlerName         = "name"
	HandlerRelations    = "relations"
	HandlerAchievements = "achievements"
	HandlerCheckpoint   = "checkpoint"
	HandlerFight        = "fight"
	HandlerAttack       = "attack"
	HandlerDefend       = "defend"
	HandlerConflict     = "conflict"
	HandlerArgue        = "argue"
	HandlerShop         = "shop"
	HandlerBuy          = "buy"
	HandlerInventory    = "inventory"
	HandlerUse          = "use"
	HandlerIngredients  = "ingredients"
	HandlerBrew         = "brew"
	HandlerMissions     = "missions"
	HandlerAgents       = "agents"
	HandlerHire         = "hire"
	HandlerSend         = "send"
	HandlerDebrief      = "debrief"
	HandlerRituals      = "rituals"
	HandlerPerform      = "perform"
	HandlerSanctum      = "sanctum"
	HandlerUpgrade      = "upgrade"
	HandlerTrivia       = "trivia"
	HandlerHint         = "hint"
	HandlerAnswer       = "answer"
	HandlerDecode       = "decode"
	HandlerBreathe      = "breathe"
	HandlerMeditate     = "meditate"
	HandlerQuit         = "quit"
	HandlerHelp         = "help"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument form, e.g. "buy <item_id>". Empty when the
	// command takes no arguments.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command for the help listing.
	Category string
	// Handler maps to the hub operation that serves it.
	Handler string
}

// BuiltinCommands returns all built-in commands for the hub.
func BuiltinCommands() []Command {
	return []Command{
		// Story
		{Name: "quest", Aliases: []string{"q"}, Help: "Show the current quest and its choices", Category: CategoryStory, Handler: HandlerQuest},
		{Name: "choose", Aliases: []string{"c"}, Usage: "choose <n>", Help: "Take choice n of the current quest", Category: CategoryStory, Handler: HandlerChoose},
		{Name: "lore", Aliases: nil, Help: "List collected lore fragments", Category: CategoryStory, Handler: HandlerLore},
		{Name: "whisper", Aliases: []string{"wh"}, Help: "Listen for an omen", Category: CategoryStory, Handler: HandlerWhisper},
		{Name: "dossier", Aliases: []string{"intel"}, Usage: "dossier <query>", Help: "Ask the oracle for intelligence", Category: CategoryStory, Handler: HandlerDossier},

		// Character
		{Name: "status", Aliases: []string{"st", "sheet"}, Help: "Show your character sheet", Category: CategoryCharacter, Handler: HandlerStatus},
		{Name: "learn", Aliases: nil, Usage: "learn <ability>", Help: "Spend xp to raise an ability", Category: CategoryCharacter, Handler: HandlerLearn},
		{Name: "origin", Aliases: nil, Usage: "origin [name]", Help: "List origins, or choose one", Category: CategoryCharacter, Handler: HandlerOrigin},
		{Name: "archetype", Aliases: []string{"lineage"}, Usage: "archetype <name>", Help: "Change your lineage", Category: CategoryCharacter, Handler: HandlerArchetype},
		{Name: "name", Aliases: nil, Usage: "name <name>", Help: "Set your character's name", Category: CategoryCharacter, Handler: HandlerName},
		{Name: "relations", Aliases: []string{"rel"}, Help: "Show where you stand with the city's figures", Category: CategoryCharacter, Handler: HandlerRelations},
		{Name: "achievements", Aliases: []string{"ach"}, Help: "Show achievements", Category: CategoryCharacter, Handler: HandlerAchievements},
		{Name: "checkpoint", Aliases: []string{"cp"}, Help: "Record a checkpoint and hear the oracle's assessment", Category: CategoryCharacter, Handler: HandlerCheckpoint},

		// Combat
		{Name: "fight", Aliases: []string{"arena"}, Help: "Enter the arena against a random challenger", Category: CategoryCombat, Handler: HandlerFight},
		{Name: "attack", Aliases: []string{"att", "a"}, Help: "Strike your opponent", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "defend", Aliases: []string{"def"}, Help: "Brace to halve the next blow", Category: CategoryCombat, Handler: HandlerDefend},

		// Social
		{Name: "conflict", Aliases: []string{"talk"}, Help: "Show the open confrontation", Category: CategorySocial, Handler: HandlerConflict},
		{Name: "argue", Aliases: []string{"say"}, Usage: "argue <n>", Help: "Make argument n in the confrontation", Category: CategorySocial, Handler: HandlerArgue},

		// Market
		{Name: "shop", Aliases: nil, Help: "Browse the black market", Category: CategoryMarket, Handler: HandlerShop},
		{Name: "buy", Aliases: nil, Usage: "buy <item_id>", Help: "Buy an item", Category: CategoryMarket, Handler: HandlerBuy},
		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "Show carried items", Category: CategoryMarket, Handler: HandlerInventory},
		{Name: "use", Aliases: nil, Usage: "use <n>", Help: "Use inventory item n", Category: CategoryMarket, Handler: HandlerUse},

		// Alchemy
		{Name: "ingredients", Aliases: []string{"ing"}, Help: "List alchemy ingredients", Category: CategoryAlchemy, Handler: HandlerIngredients},
		{Name: "brew", Aliases: nil, Usage: "brew <id> [id] [id]", Help: "Combine up to three ingredients", Category: CategoryAlchemy, Handler: HandlerBrew},

		// Syndicate
		{Name: "missions", Aliases: []string{"ops"}, Help: "List missions and their progress", Category: CategorySyndicate, Handler: HandlerMissions},
		{Name: "agents", Aliases: nil, Help: "List hired agents and agents for hire", Category: CategorySyndicate, Handler: HandlerAgents},
		{Name: "hire", Aliases: nil, Usage: "hire <agent_id>", Help: "Hire an agent", Category: CategorySyndicate, Handler: HandlerHire},
		{Name: "send", Aliases: nil, Usage: "send <mission_id> <agent_id>", Help: "Send an agent on a mission", Category: CategorySyndicate, Handler: HandlerSend},
		{Name: "debrief", Aliases: []string{"db"}, Usage: "debrief <mission_id>", Help: "Resolve a completed mission", Category: CategorySyndicate, Handler: HandlerDebrief},

		// Occult
		{Name: "rituals", Aliases: nil, Help: "List rituals", Category: CategoryOccult, Handler: HandlerRituals},
		{Name: "perform", Aliases: []string{"ritual"}, Usage: "perform <ritual_id>", Help: "Perform a ritual", Category: CategoryOccult, Handler: HandlerPerform},
		{Name: "sanctum", Aliases: nil, Help: "Show your sanctum", Category: CategoryOccult, Handler: HandlerSanctum},
		{Name: "upgrade", Aliases: nil, Usage: "upgrade <module_id>", Help: "Upgrade a sanctum module", Category: CategoryOccult, Handler: HandlerUpgrade},

		// Diversions
		{Name: "trivia", Aliases: []string{"quiz"}, Usage: "trivia [category]", Help: "Take a question in the Cipher Den", Category: CategoryDiversion, Handler: HandlerTrivia},
		{Name: "hint", Aliases: nil, Help: "Pay a soul shard to strike a wrong answer", Category: CategoryDiversion, Handler: HandlerHint},
		{Name: "answer", Aliases: []string{"ans"}, Usage: "answer <n>", Help: "Answer the trivia question with option n", Category: CategoryDiversion, Handler: HandlerAnswer},
		{Name: "decode", Aliases: []string{"glyph"}, Help: "Decode an encrypted glyph", Category: CategoryDiversion, Handler: HandlerDecode},
		{Name: "breathe", Aliases: nil, Usage: "breathe [stop]", Help: "Start the breathing exercise, or stop it and collect", Category: CategoryDiversion, Handler: HandlerBreathe},
		{Name: "meditate", Aliases: []string{"med"}, Usage: "meditate [topic]", Help: "List guided meditations, or follow one", Category: CategoryDiversion, Handler: HandlerMeditate},

		// System
		{Name: "quit", Aliases: []string{"exit"}, Help: "Leave the hub", Category: CategorySystem, Handler: HandlerQuit},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}
