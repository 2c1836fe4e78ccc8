package utils

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = 60 * time.Second

	gracefulEnvironKey = "IS_GRACEFUL"
	gracefulListenerFD = 3
)

// GraceServer runs an HTTP server that shuts down cleanly on SIGTERM and
// restarts in place on SIGUSR2 by forking a child that inherits the listener.
func GraceServer(addr string, handler http.Handler) error {
	srv := &graceServer{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
		},
		inherited:    os.Getenv(gracefulEnvironKey) != "",
		shutdownDone: make(chan struct{}),
	}
	return srv.listenAndServe()
}

type graceServer struct {
	*http.Server

	listener     net.Listener
	inherited    bool
	shutdownDone chan struct{}
}

func (srv *graceServer) listenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	go srv.handleSignals()
	err = srv.Serve(ln)
	// Serve returns as soon as the listener closes; wait for Shutdown to
	// drain in-flight requests.
	<-srv.shutdownDone
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (srv *graceServer) listen() (net.Listener, error) {
	if srv.inherited {
		file := os.NewFile(gracefulListenerFD, "")
		ln, err := net.FileListener(file)
		if err != nil {
			return nil, fmt.Errorf("net.FileListener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}
	return ln, nil
}

func (srv *graceServer) handleSignals() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range sigs {
		switch sig {
		case syscall.SIGTERM:
			Sugar.Info("received SIGTERM, shutting down HTTP server")
			srv.shutdown()
			return
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			if pid, err := srv.forkChild(); err != nil {
				Sugar.Errorf("graceful restart failed: %v, continue serving", err)
			} else {
				Sugar.Infof("forked new process pid=%d, closing old server", pid)
				srv.shutdown()
				return
			}
		}
	}
}

func (srv *graceServer) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	}
	close(srv.shutdownDone)
}

func (srv *graceServer) forkChild() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, fmt.Errorf("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}

	envs := []string{}
	for _, e := range os.Environ() {
		if e != gracefulEnvironKey+"=1" {
			envs = append(envs, e)
		}
	}
	envs = append(envs, gracefulEnvironKey+"=1")

	attr := &syscall.ProcAttr{
		Env:   envs,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}
