// Package glyph decodes the encrypted glyphs of the Utility Suite. Each decode
// yields one find: a soul shard, an uncollected lore fragment, or a packet of
// sovereigns.
package glyph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/nightcourt/internal/game/dice"
)

// Find draw bands over a uniform draw in [0, 1).
const (
	shardBand = 0.1
	loreBand  = 0.4

	packetMin    = 10
	packetSpread = 16
)

// Kind classifies what a decode found.
type Kind int

const (
	SoulShard Kind = iota
	Lore
	Sovereigns
)

func (k Kind) String() string {
	switch k {
	case SoulShard:
		return "soul_shard"
	case Lore:
		return "lore"
	case Sovereigns:
		return "sovereigns"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fragment is a lore fragment a glyph can reveal.
type Fragment struct {
	ID    string
	Title string
}

// Collector receives what a decode finds.
type Collector interface {
	AddSoulShards(n int)
	AddCurrency(xp, sovereigns int)
	HasLore(id string) bool
	AddLore(id string)
}

// Result is one decode.
type Result struct {
	Kind Kind
	// Amount is the shards or sovereigns found. Zero for lore.
	Amount   int
	Fragment Fragment
}

// Message is the line shown to the player.
func (r Result) Message() string {
	switch r.Kind {
	case SoulShard:
		return "DECODED: +1 Soul Shard. A potent find."
	case Lore:
		return fmt.Sprintf("DECODED: Lore Acquired - %q.", r.Fragment.Title)
	}
	return fmt.Sprintf("DECODED: Encrypted data packet resolves to %d Sovereigns.", r.Amount)
}

// Decoder turns glyphs into finds.
type Decoder struct {
	fragments []Fragment
	src       dice.Source
	logger    *zap.Logger
}

// NewDecoder creates a Decoder that reveals fragments in the given order.
//
// Precondition: src and logger must be non-nil.
func NewDecoder(fragments []Fragment, src dice.Source, logger *zap.Logger) *Decoder {
	if src == nil || logger == nil {
		panic("glyph: NewDecoder precondition violated: nil collaborator")
	}
	return &Decoder{fragments: append([]Fragment(nil), fragments...), src: src, logger: logger}
}

// Decode draws one find and hands it to c. The lore band falls through to
// sovereigns once every fragment is collected.
func (d *Decoder) Decode(c Collector) Result {
	u := d.src.Float64()
	var res Result
	switch {
	case u < shardBand:
		res = Result{Kind: SoulShard, Amount: 1}
		c.AddSoulShards(1)
	case u < loreBand:
		if f, ok := d.uncollected(c); ok {
			res = Result{Kind: Lore, Fragment: f}
			c.AddLore(f.ID)
			break
		}
		res = d.packet(c)
	default:
		res = d.packet(c)
	}
	d.logger.Info("glyph decoded",
		zap.Stringer("kind", res.Kind),
		zap.Int("amount", res.Amount),
		zap.String("lore", res.Fragment.ID),
	)
	return res
}

func (d *Decoder) uncollected(c Collector) (Fragment, bool) {
	var open []Fragment
	for _, f := range d.fragments {
		if !c.HasLore(f.ID) {
			open = append(open, f)
		}
	}
	if len(open) == 0 {
		return Fragment{}, false
	}
	return open[d.src.Intn(len(open))], true
}

func (d *Decoder) packet(c Collector) Result {
	n := packetMin + d.src.Intn(packetSpread)
	c.AddCurrency(0, n)
	return Result{Kind: Sovereigns, Amount: n}
}
