// Package store saves wallet client state to a file so that a restarted
// client resumes from where it stopped.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/stellar/starlight/walletclient/client"
	"github.com/stellar/starlight/walletclient/event"
	"github.com/stellar/starlight/walletclient/ledger"
)

// Version is the version of the file format. Files of another version keep
// only their configuration and lifecycle when loaded, and the client
// rebuilds its ledgers from the agent's updates.
const Version = 1

type contents struct {
	Version     int
	Config      event.Config
	Lifecycle   client.Lifecycle
	ClientState client.ClientState
	Wallet      ledger.Wallet
	Channels    ledger.Channels
}

// File stores state as JSON at Path, gzip compressed if Path ends in .gz.
// The cursor and the ledgers are always written together.
type File struct {
	Path string
}

func (f File) compressed() bool {
	return strings.HasSuffix(f.Path, ".gz")
}

// Save writes the state to the file. The file is replaced atomically, so a
// crash leaves either the old or the new state.
func (f File) Save(s client.State) error {
	b, err := json.MarshalIndent(contents{
		Version:     Version,
		Config:      s.Config,
		Lifecycle:   s.Lifecycle,
		ClientState: s.ClientState,
		Wallet:      s.Wallet,
		Channels:    s.Channels,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir, base := filepath.Split(f.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".tmp*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", f.Path, err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	var w io.Writer = tmp
	var zw *gzip.Writer
	if f.compressed() {
		zw = gzip.NewWriter(tmp)
		w = zw
	}
	_, err = w.Write(b)
	if err != nil {
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if zw != nil {
		err = zw.Close()
		if err != nil {
			return fmt.Errorf("compressing %s: %w", tmp.Name(), err)
		}
	}
	err = tmp.Sync()
	if err != nil {
		return fmt.Errorf("syncing %s: %w", tmp.Name(), err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	err = os.Rename(tmp.Name(), f.Path)
	if err != nil {
		return fmt.Errorf("replacing %s: %w", f.Path, err)
	}
	return nil
}

// Load reads the state from the file. It reports false if the file does not
// exist.
func (f File) Load() (client.State, bool, error) {
	raw, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return client.State{}, false, nil
	}
	if err != nil {
		return client.State{}, false, fmt.Errorf("reading %s: %w", f.Path, err)
	}
	if f.compressed() {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return client.State{}, false, fmt.Errorf("decompressing %s: %w", f.Path, err)
		}
		raw, err = io.ReadAll(zr)
		if err != nil {
			return client.State{}, false, fmt.Errorf("decompressing %s: %w", f.Path, err)
		}
	}

	var header struct {
		Version   int
		Config    event.Config
		Lifecycle client.Lifecycle
	}
	err = json.Unmarshal(raw, &header)
	if err != nil {
		return client.State{}, false, fmt.Errorf("json decoding %s: %w", f.Path, err)
	}
	if header.Version != Version {
		return client.State{Config: header.Config, Lifecycle: header.Lifecycle}, true, nil
	}

	c := contents{}
	err = json.Unmarshal(raw, &c)
	if err != nil {
		return client.State{}, false, fmt.Errorf("json decoding %s: %w", f.Path, err)
	}
	return client.State{
		ClientState: c.ClientState,
		Config:      c.Config,
		Lifecycle:   c.Lifecycle,
		Wallet:      c.Wallet,
		Channels:    c.Channels,
	}, true, nil
}
