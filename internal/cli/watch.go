package cli

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/shutter/internal/app"
	"github.com/dshills/shutter/internal/config"
	"github.com/dshills/shutter/internal/config/notify"
	"github.com/dshills/shutter/internal/config/watcher"
)

// watchNotifyBuffer is how many configuration changes may queue while a
// render is running.
const watchNotifyBuffer = 16

func newWatchCommand(sessionOpts []app.SessionOption) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "watch FILE [key=value|open ...]",
		Short: "Render FILE again whenever it or the configuration changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := newEnv(cmd, sessionOpts, config.WithAsyncNotify(watchNotifyBuffer))
			if err != nil {
				return err
			}
			defer e.close()
			return runWatch(ctx, cmd, e, opts, args)
		},
	}
	addRenderFlags(cmd.Flags(), &opts)
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, e *env, opts renderOptions, args []string) error {
	buf, desc, err := openBuffer(cmd, args[0], args[1:], opts)
	if err != nil {
		return err
	}
	log := e.logger.WithComponent("watch")

	var mu sync.Mutex
	render := func(reason string) {
		mu.Lock()
		defer mu.Unlock()
		log.Info("render: %s", reason)

		rctx, cancel := e.renderContext(ctx)
		defer cancel()
		if _, err := e.session.Start(rctx, buf, desc); err != nil {
			log.Error("%v", err)
		}
	}

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Warn("watch %s: %v", buf.Path(), err)
	}))
	if err != nil {
		return err
	}
	defer w.Stop()
	if err := w.Watch(buf.Path()); err != nil {
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			return
		}
		mu.Lock()
		err := buf.Reload()
		mu.Unlock()
		if err != nil {
			log.Error("reload %s: %v", buf.Path(), err)
			return
		}
		render(ev.Op.String() + " " + buf.Path())
	})

	sub := e.configs.Subscribe(func(c notify.Change) {
		switch c.Type {
		case notify.ChangeReload:
			render("configuration reloaded")
		case notify.ChangeRejected:
			log.Warn("configuration rejected, keeping previous: %v", c.Err)
		}
	})
	defer sub.Unsubscribe()

	render("start")
	w.Start()

	errc := make(chan error, 1)
	go func() { errc <- e.configs.Watch(ctx) }()

	select {
	case err := <-errc:
		if err != nil {
			return err
		}
		<-ctx.Done()
	case <-ctx.Done():
	}
	return nil
}
