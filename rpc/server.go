package rpc

import (
	"errors"
	"net"
	"net/rpc"
	"sync"

	"github.com/BrugadaSyndrome/bslogger"
)

// ProgressServer exposes a Monitor over net/rpc on a TCP listener
type ProgressServer struct {
	address  string
	listener net.Listener
	monitor  *Monitor
	wg       sync.WaitGroup

	Logger bslogger.Logger
}

// NewProgressServer serves monitor at address; a port of 0 lets the kernel pick one, readable from Address after Run
func NewProgressServer(monitor *Monitor, address string, logger bslogger.Logger) *ProgressServer {
	return &ProgressServer{
		address: address,
		monitor: monitor,
		Logger:  logger,
	}
}

func (ps *ProgressServer) Run() error {
	handler := rpc.NewServer()
	if err := handler.RegisterName("Monitor", ps.monitor); err != nil {
		ps.Logger.Error("Registering monitor")
		return err
	}

	listener, err := net.Listen("tcp", ps.address)
	if err != nil {
		ps.Logger.Errorf("Listening at address %s", ps.address)
		return err
	}
	ps.listener = listener
	ps.address = listener.Addr().String()

	ps.wg.Add(1)
	go func() {
		defer ps.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					// Stop closed the listener
					return
				}
				ps.Logger.Warningf("Accepting connection at address %s - %s", ps.address, err)
				continue
			}
			ps.Logger.Debugf("Server opened connection to client at address %s", conn.RemoteAddr())
			go handler.ServeConn(conn)
		}
	}()

	ps.Logger.Infof("Running server at address %s", ps.address)
	return nil
}

// Address is the address the server listens on; after Run it holds the resolved port
func (ps *ProgressServer) Address() string {
	return ps.address
}

func (ps *ProgressServer) Stop() error {
	if ps.listener == nil {
		return errors.New("server is not running")
	}
	ps.Logger.Infof("Shutting down server at address %s", ps.address)
	err := ps.listener.Close()
	ps.wg.Wait()
	return err
}
