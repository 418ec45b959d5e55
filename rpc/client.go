package rpc

import (
	"errors"
	"fmt"
	"net/rpc"

	"github.com/BrugadaSyndrome/bslogger"
)

// ProgressClient reports finished frames to the ProgressServer of the originating process
type ProgressClient struct {
	client        *rpc.Client
	serverAddress string

	Logger bslogger.Logger
}

func NewProgressClient(serverAddress string, logger bslogger.Logger) *ProgressClient {
	return &ProgressClient{
		serverAddress: serverAddress,
		Logger:        logger,
	}
}

func (pc *ProgressClient) Connect() error {
	if pc.client != nil {
		pc.Logger.Warningf("Already connected to server at address %s", pc.serverAddress)
		return nil
	}

	client, err := rpc.Dial("tcp", pc.serverAddress)
	if err != nil {
		pc.Logger.Errorf("Connecting to server at address %s", pc.serverAddress)
		return err
	}
	pc.client = client
	pc.Logger.Debugf("Connected to server at: %s", pc.serverAddress)
	return nil
}

func (pc *ProgressClient) Report(report ImageReport) error {
	if pc.client == nil {
		return fmt.Errorf("not connected to server at address %s", pc.serverAddress)
	}

	var ack bool
	if err := pc.client.Call("Monitor.ImageRendered", report, &ack); err != nil {
		return fmt.Errorf("reporting image %d to %s - %w", report.ImageNumber, pc.serverAddress, err)
	}
	if !ack {
		return fmt.Errorf("server at %s did not acknowledge image %d", pc.serverAddress, report.ImageNumber)
	}
	return nil
}

func (pc *ProgressClient) Disconnect() error {
	if pc.client == nil {
		return errors.New("already disconnected from server at address " + pc.serverAddress)
	}

	err := pc.client.Close()
	pc.client = nil
	if err != nil {
		pc.Logger.Errorf("Disconnecting from server at address %s", pc.serverAddress)
		return err
	}
	pc.Logger.Debugf("Disconnected from server at %s", pc.serverAddress)
	return nil
}
