// Package signal maps process signals onto daemon actions.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

// SignalHandler regenerates the layout on SIGUSR1.
type SignalHandler interface {
	RunOnce(context.Context) error
}

// Reloader reloads the configuration on SIGHUP.
type Reloader interface {
	Reload(context.Context) error
}

type Handler struct {
	signals chan os.Signal
	ctx     context.Context
	cancel  context.CancelCauseFunc
}

func NewHandler(ctx context.Context, cancel context.CancelCauseFunc) *Handler {
	return &Handler{
		signals: make(chan os.Signal, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (h *Handler) Start(handler SignalHandler, reloader Reloader) {
	actions := map[os.Signal]func(){
		syscall.SIGUSR1: func() {
			logrus.Info("Received SIGUSR1, regenerating the layout")
			if err := handler.RunOnce(h.ctx); err != nil {
				logrus.WithError(err).Error("Manual update failed, service will keep running")
				return
			}
			logrus.Info("Manual update completed successfully")
		},
		syscall.SIGHUP: func() {
			logrus.Info("Received SIGHUP, reloading configuration")
			if err := reloader.Reload(h.ctx); err != nil {
				logrus.WithError(err).Error("Reload failed, service will keep running")
			}
		},
		syscall.SIGTERM: h.terminate,
		syscall.SIGINT:  h.terminate,
	}

	for sig := range actions {
		signal.Notify(h.signals, sig)
	}
	go func() {
		for {
			select {
			case sig := <-h.signals:
				logrus.WithField("signal", sig).Debug("Signal received")
				actions[sig]()
			case <-h.ctx.Done():
				return
			}
		}
	}()
}

func (h *Handler) terminate() {
	logrus.Info("Received termination signal, shutting down gracefully")
	h.cancel(context.Canceled)
}

func (h *Handler) Stop() {
	h.cancel(context.Canceled)
	signal.Stop(h.signals)
}
