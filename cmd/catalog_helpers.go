package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/iterminator/internal/catalog"
	"github.com/oakwood-commons/iterminator/internal/cel"
	"github.com/oakwood-commons/iterminator/internal/config"
	"github.com/oakwood-commons/iterminator/internal/selector"
)

// filterOptions narrow the catalog after loading.
type filterOptions struct {
	light bool
	dark  bool
	where string
}

func buildCatalog(cfg config.Config, f filterOptions, log logr.Logger) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.Schemes.Dir, catalog.LoadOptions{Suffix: cfg.Schemes.Suffix, Pattern: cfg.Schemes.Pattern})
	if err != nil {
		return nil, err
	}
	if f.light || f.dark {
		if cat, err = catalog.FilterByBrightness(cat, classifier, f.light, log); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(f.where) != "" {
		ev, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		pred, err := ev.Compile(f.where)
		if err != nil {
			return nil, err
		}
		if cat, err = pred.Filter(cat, classifier, log); err != nil {
			return nil, err
		}
	}
	log.V(1).Info("catalog loaded", "schemes", cat.Len())
	return cat, nil
}

func printList(w io.Writer, cat *catalog.Catalog, withIndex bool) error {
	for _, e := range cat.Entries() {
		var err error
		if withIndex {
			_, err = fmt.Fprintf(w, "%d: %s\n", e.Index, e.Name)
		} else {
			_, err = fmt.Fprintln(w, e.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// startWatcher reloads the catalog into sel whenever the scheme directory
// changes. The returned function stops watching and waits for the watcher.
func startWatcher(ctx context.Context, cfg config.Config, f filterOptions, sel *selector.Selector, log logr.Logger) (func(), error) {
	w, err := catalog.NewWatcher(cfg.Schemes.Dir, log)
	if err != nil {
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(wctx, func() {
			cat, err := buildCatalog(cfg, f, log)
			if err != nil {
				log.V(1).Info("reload skipped", "error", err.Error())
				return
			}
			if err := sel.Reload(wctx, cat); err != nil {
				log.V(1).Info("reload failed", "error", err.Error())
			}
		})
	}()
	return func() {
		cancel()
		<-done
		_ = w.Close()
	}, nil
}
