// Package menu drives the interactive collection menu: numbered script
// entries, an install-all option, and one numeric selection read from the
// input. Reader and writer are injected so tests can drive the dialogue.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/handy/pkg/errors"
	"github.com/arthur-debert/handy/pkg/logging"
	"github.com/arthur-debert/handy/pkg/style"
	"github.com/arthur-debert/handy/pkg/types"
	"github.com/rs/zerolog"
)

// Selection is what the user picked from a collection menu.
type Selection struct {
	// All is true when the install-all option was chosen
	All bool

	// Entry is the chosen script when All is false
	Entry types.ScriptEntry
}

// Menu presents a collection's scripts and reads a selection.
type Menu struct {
	in       io.Reader
	out      io.Writer
	renderer style.Renderer
	logger   zerolog.Logger
}

// New creates a Menu reading selections from in and printing plain text
// to out.
func New(in io.Reader, out io.Writer) *Menu {
	return NewWithRenderer(in, out, style.NewPlainRenderer())
}

// NewWithRenderer creates a Menu whose option block is rendered through
// the given renderer.
func NewWithRenderer(in io.Reader, out io.Writer, renderer style.Renderer) *Menu {
	return &Menu{
		in:       in,
		out:      out,
		renderer: renderer,
		logger:   logging.GetLogger("menu"),
	}
}

// SelectScript prints the collection's scripts numbered 1..N plus option
// N+1 to install the whole collection, then reads one line. Anything that
// is not a number in range is an invalid selection: nothing installs.
func (m *Menu) SelectScript(collection types.Collection, scripts []types.ScriptEntry) (Selection, error) {
	if len(scripts) == 0 {
		return Selection{}, errors.Newf(errors.ErrNotFound,
			"collection %s has no scripts", collection.Name)
	}

	allOption := len(scripts) + 1
	fmt.Fprintln(m.out, m.renderer.RenderMenu(collection.Name, scripts))
	fmt.Fprintf(m.out, "\nSelect an option [1-%d]: ", allOption)

	reader := bufio.NewReader(m.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return Selection{}, errors.Wrap(err, errors.ErrInvalidSelection,
			"no selection read")
	}

	raw := strings.TrimSpace(line)
	choice, convErr := strconv.Atoi(raw)
	if convErr != nil || choice < 1 || choice > allOption {
		m.logger.Debug().
			Str("input", raw).
			Int("max", allOption).
			Msg("Invalid menu selection")
		return Selection{}, errors.Newf(errors.ErrInvalidSelection,
			"invalid selection: %q", raw).
			WithDetail("max", allOption)
	}

	if choice == allOption {
		m.logger.Debug().Str("collection", collection.Name).Msg("Selected install-all")
		return Selection{All: true}, nil
	}

	entry := scripts[choice-1]
	m.logger.Debug().Str("script", entry.Name).Msg("Selected script")
	return Selection{Entry: entry}, nil
}
