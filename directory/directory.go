package directory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tbxark/calltaker/types"
	"gopkg.in/yaml.v3"
)

// Directory maps a phone number to a registered customer.
type Directory interface {
	Lookup(phone string) (types.CustomerRecord, bool)
}

// Static is an in-memory reference table keyed by phone digits.
type Static map[string]types.CustomerRecord

func (s Static) Lookup(phone string) (types.CustomerRecord, bool) {
	rec, ok := s[phone]
	return rec, ok
}

// Default returns the built-in reference table.
func Default() Static {
	return Static{
		"050555555": {
			PriorityID:           "2",
			SectorID:             "11",
			NetworkID:            "104",
			AreaID:               "7",
			LabID:                "3",
			CommercialBranchCode: "RYD-01",
			ClientAddress:        "King Fahd Road, Al Olaya District, Riyadh",
		},
	}
}

// LoadFile reads a phone → record table from a YAML or JSON file.
func LoadFile(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}
	table := Static{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = sonic.Unmarshal(data, &table)
	default:
		err = yaml.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, fmt.Errorf("decode directory file %s: %w", path, err)
	}
	return table, nil
}

var _ Directory = Static(nil)
