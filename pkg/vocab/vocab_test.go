package vocab

import (
	"testing"

	"github.com/fieldcal/fieldcal/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFirstEntryIsDefault(t *testing.T) {
	s := NewService(config.Vocab{
		Categories: []string{"개발부", "영업부"},
		CostTypes:  []string{"교통비", "식대"},
	})

	assert.Equal(t, "개발부", s.DefaultCategory())
	assert.Len(t, s.Categories(), 2)
	assert.True(t, s.IsCostType("식대"))
	assert.False(t, s.IsCostType("숙박비"))
}

func TestEmptyVocabHasNoDefault(t *testing.T) {
	s := NewService(config.Vocab{})
	assert.Equal(t, "", s.DefaultCategory())
	assert.Empty(t, s.Categories())
}
