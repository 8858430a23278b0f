package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/tbxark/calltaker/types"
)

// scriptedCompleter answers extraction prompts by the label they end with.
type scriptedCompleter struct {
	complaint string
	phone     string
	address   string
	fail      bool
	prompts   []string
}

func (c *scriptedCompleter) Generate(ctx context.Context, tier types.Tier, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.fail {
		return "", errors.New("model unavailable")
	}
	switch {
	case strings.HasSuffix(prompt, "Complaint:"):
		return orNone(c.complaint), nil
	case strings.HasSuffix(prompt, "Phone number:"):
		return orNone(c.phone), nil
	case strings.HasSuffix(prompt, "Address:"):
		return orNone(c.address), nil
	}
	return "None", nil
}

func (c *scriptedCompleter) asked(label string) int {
	n := 0
	for _, p := range c.prompts {
		if strings.HasSuffix(p, label) {
			n++
		}
	}
	return n
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
