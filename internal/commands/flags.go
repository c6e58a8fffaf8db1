package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/exitcode"
	"taskboard/internal/service"
)

// viewFlags are the group-by and sort-by selectors shared by commands that
// build a board. Empty values fall back to the configured defaults.
type viewFlags struct {
	group string
	sort  string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.group, "group", "", "")
	fs.StringVar(&v.sort, "sort", "", "")
}

// view is a resolved board selection.
type view struct {
	group  board.GroupKey
	sort   board.SortKey
	sorter *board.Sorter
}

func (v *viewFlags) resolve(cfg *config.Config) (view, error) {
	groupName := v.group
	if groupName == "" {
		groupName = cfg.Settings.GroupBy
	}
	group, err := board.ParseGroupKey(groupName)
	if err != nil {
		return view{}, err
	}

	sortName := v.sort
	if sortName == "" {
		sortName = cfg.Settings.SortBy
	}
	sort, err := board.ParseSortKey(sortName)
	if err != nil {
		return view{}, err
	}

	tag := language.Und
	if cfg.Settings.Language != "" {
		tag, err = language.Parse(cfg.Settings.Language)
		if err != nil {
			return view{}, fmt.Errorf("invalid language: %s", cfg.Settings.Language)
		}
	}

	return view{group: group, sort: sort, sorter: board.NewSorter(board.WithLanguage(tag))}, nil
}

// fetchBoard fetches tickets and builds the board for v.
func fetchBoard(ctx context.Context, src service.Source, v view) (board.Board, error) {
	tasks, err := src.FetchTickets(ctx)
	if err != nil {
		return board.Board{}, err
	}
	return v.sorter.Build(tasks, v.group, v.sort), nil
}

// reportFetchError prints a source error and returns the matching exit code.
func reportFetchError(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrAuth) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
