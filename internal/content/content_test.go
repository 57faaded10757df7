package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/nightcourt/internal/content"
	"github.com/cory-johannsen/nightcourt/internal/game/consequence"
	"github.com/cory-johannsen/nightcourt/internal/game/npc"
)

const contentDir = "../../content"

func TestLoad_ShippedContent(t *testing.T) {
	tables, err := content.Load(contentDir)
	require.NoError(t, err)

	assert.Len(t, tables.NPCs, 6)
	assert.Len(t, tables.Enemies, 3)
	assert.Len(t, tables.Origins, 3)
	assert.Len(t, tables.Alchemy.Ingredients, 10)
	assert.Len(t, tables.Syndicate.Missions, 4)
	assert.Len(t, tables.Syndicate.ForHire, 4)
	assert.Len(t, tables.Rituals, 3)
	assert.Len(t, tables.Sanctum, 4)
	assert.Len(t, tables.Achievements, 3)
	assert.Equal(t, []string{"health_potion", "silver_dagger"}, tables.Shop)

	c, ok := tables.Conflict(1)
	require.True(t, ok)
	assert.Equal(t, "mr_jones", c.NPC)
	assert.Equal(t, 2, c.SuccessThreshold)
	assert.Len(t, c.Choices, 4)

	f, ok := tables.LoreFragment("cryptic_warning")
	require.True(t, ok)
	assert.Equal(t, "Cryptic Warning", f.Title)

	o, ok := tables.Origin("Street Urchin")
	require.True(t, ok)
	assert.Equal(t, 75, o.Sovereigns)
}

func TestLoad_StartQuestBranchesByArchetype(t *testing.T) {
	tables, err := content.Load(contentDir)
	require.NoError(t, err)

	var branch consequence.BranchOnArchetype
	for _, q := range tables.Quests {
		if q.ID != content.StartQuest {
			continue
		}
		for _, c := range q.Choices[0].Consequences {
			if b, ok := c.(consequence.BranchOnArchetype); ok {
				branch = b
			}
		}
	}
	assert.Equal(t, consequence.List{consequence.SetQuest{QuestID: 2}}, consequence.List(branch.Select("Vampire")))
	assert.Equal(t, consequence.List{consequence.SetQuest{QuestID: 100}}, consequence.List(branch.Select("Hunter")))
}

func copyContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	entries, err := os.ReadDir(contentDir)
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(contentDir, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0o644))
	}
	return dir
}

func TestLoad_MissingFile(t *testing.T) {
	dir := copyContent(t)
	require.NoError(t, os.Remove(filepath.Join(dir, content.LoreFile)))
	_, err := content.Load(dir)
	assert.ErrorContains(t, err, content.LoreFile)
}

func TestLoad_DanglingShopItem(t *testing.T) {
	dir := copyContent(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.ShopFile), []byte("- health_potion\n- vorpal_blade\n"), 0o644))
	_, err := content.Load(dir)
	assert.ErrorContains(t, err, `unknown item "vorpal_blade"`)
}

func TestLoad_DanglingLoreInMission(t *testing.T) {
	dir := copyContent(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.LoreFile), []byte("- id: shadow_pact\n  title: The Shadow Pact\n  content: x\n"), 0o644))
	_, err := content.Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `mission mission-01: unknown lore "cryptic_warning"`)
	assert.Contains(t, err.Error(), "addLore(syndicate_routes) names unknown lore")
}

func TestTables_ValidateConsequenceNPC(t *testing.T) {
	tables, err := content.Load(contentDir)
	require.NoError(t, err)
	tables.NPCs = []*npc.Def{{ID: "helena", Name: "Helena"}}
	err = tables.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "social conflict 1: unknown npc \"mr_jones\"")
}

func TestParseLore_Rejects(t *testing.T) {
	_, err := content.ParseLore([]byte("- id: a\n  title: A\n- id: a\n  title: B\n"))
	assert.Error(t, err)
	_, err = content.ParseLore([]byte("- id: a\n"))
	assert.Error(t, err)
	_, err = content.ParseLore([]byte("- id: a\n  title: A\n  author: x\n"))
	assert.Error(t, err)
}
