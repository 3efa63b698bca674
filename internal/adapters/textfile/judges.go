package textfile

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/swissjury/internal/domain/model"
)

// judgeEntry is the YAML shape of one judge:
//
//	judges:
//	  - name: Ada
//	    forbidden_affiliations: [North]
//	    forbidden_participants: [Beta]
//	    assigned: 3
type judgeEntry struct {
	Name                  string   `koanf:"name"`
	ForbiddenAffiliations []string `koanf:"forbidden_affiliations"`
	ForbiddenParticipants []string `koanf:"forbidden_participants"`
	Assigned              int      `koanf:"assigned"`
}

// LoadJudges reads judge definitions from a YAML file.
func LoadJudges(path string) ([]model.JudgeDefinition, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadJudges, path, err)
	}

	var entries []judgeEntry
	if err := k.UnmarshalWithConf("judges", &entries, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadJudges, path, err)
	}

	out := make([]model.JudgeDefinition, 0, len(entries))
	for i, e := range entries {
		def := model.JudgeDefinition{
			Name:                  e.Name,
			ForbiddenAffiliations: e.ForbiddenAffiliations,
			ForbiddenParticipants: e.ForbiddenParticipants,
			Assigned:              e.Assigned,
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: judge %d: %w", ErrLoadJudges, path, i, err)
		}
		out = append(out, def)
	}
	return out, nil
}
