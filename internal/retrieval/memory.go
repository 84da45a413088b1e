package retrieval

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"brainstem/internal/contracts"
	"brainstem/internal/store"
)

// contentHash fingerprints a memory item's content. json.Marshal emits map
// keys in sorted order, so semantically equal content hashes equal.
func contentHash(content map[string]any) string {
	data, err := json.Marshal(content)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// joinMemory deduplicates, truncates and splits an actor's memory items
// into the typed memory context. Duplicate content keeps the higher
// confidence copy. Returns the context plus one citation per kept item.
func joinMemory(items []store.MemoryItem, workspaceID string, maxItems int) (contracts.MemoryContext, []contracts.SourceRef) {
	mc := contracts.NewMemoryContext()

	byHash := map[string]int{}
	kept := []store.MemoryItem{}
	for _, it := range items {
		if it.WorkspaceID != workspaceID {
			continue
		}
		h := contentHash(it.Content)
		if idx, dup := byHash[h]; dup {
			if it.Confidence > kept[idx].Confidence {
				kept[idx] = it
			}
			continue
		}
		byHash[h] = len(kept)
		kept = append(kept, it)
	}
	if maxItems > 0 && len(kept) > maxItems {
		kept = kept[:maxItems]
	}

	// prefConfidence tracks which item set each preference field, so a
	// lower-confidence preference never overwrites a higher one.
	prefConfidence := map[string]float64{}
	sources := []contracts.SourceRef{}
	for _, it := range kept {
		switch it.MemoryType {
		case "preference":
			for field, value := range it.Content {
				if prev, ok := prefConfidence[field]; ok && prev >= it.Confidence {
					continue
				}
				mc.Preferences[field] = value
				prefConfidence[field] = it.Confidence
			}
		case "entity":
			for name, attrs := range it.Content {
				if m, ok := attrs.(map[string]any); ok {
					mc.EntityData[name] = m
				}
			}
		case "episodic":
			mc.Episodic = append(mc.Episodic, it.Content)
		case "outcome":
			mc.Outcomes = append(mc.Outcomes, it.Content)
		}
		sources = append(sources, contracts.SourceRef{
			SourceType: "memory",
			SourceID:   it.ID,
			Confidence: it.Confidence,
		})
	}
	return mc, sources
}
