package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

// Fetcher downloads the wholesaler's catalog archive over FTP. The
// pipeline itself never touches the network: it consumes the local
// file path this returns.
type Fetcher struct {
	host     string
	user     string
	password string
	dir      string
	filename string
	timeout  time.Duration
}

func NewFetcher(host, user, password, dir, filename string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		host:     host,
		user:     user,
		password: password,
		dir:      dir,
		filename: filename,
		timeout:  timeout,
	}
}

// Run downloads the catalog to a temporary file and returns its path
// with a cleanup func. The cleanup is safe to call on every path.
func (f *Fetcher) Run(ctx context.Context) (string, func(), error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return "", nil, err
	}
	defer conn.Quit()

	if f.dir != "" && f.dir != "/" {
		if err := conn.ChangeDir(f.dir); err != nil {
			return "", nil, fmt.Errorf("failed to change to remote directory %s: %w", f.dir, err)
		}
	}

	resp, err := conn.Retr(f.filename)
	if err != nil {
		return "", nil, fmt.Errorf("failed to retrieve %s: %w", f.filename, err)
	}
	defer resp.Close()

	tmp, err := os.CreateTemp("", "catalog-*"+suffix(f.filename))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	cleanup := func() { os.Remove(tmp.Name()) }

	written, err := io.Copy(tmp, resp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to download %s: %w", f.filename, err)
	}

	slog.Info("Catalog downloaded", "file", f.filename, "bytes", written)

	return tmp.Name(), cleanup, nil
}

// List returns the remote directory entries, a diagnostic for finding
// the current catalog drop.
func (f *Fetcher) List(ctx context.Context) ([]string, error) {
	conn, err := f.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	entries, err := conn.List(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote directory %s: %w", f.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != ftp.EntryTypeFile {
			continue
		}
		names = append(names, fmt.Sprintf("%s (%d bytes, %s)",
			entry.Name, entry.Size, entry.Time.Format("2006-01-02")))
	}
	return names, nil
}

func (f *Fetcher) connect(ctx context.Context) (*ftp.ServerConn, error) {
	addr := f.host
	if !strings.Contains(addr, ":") {
		addr += ":21"
	}

	conn, err := ftp.Dial(addr,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(f.timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to FTP host %s: %w", f.host, err)
	}

	if err := conn.Login(f.user, f.password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("FTP login failed: %w", err)
	}

	return conn, nil
}

func suffix(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 {
		return filename[idx:]
	}
	return ""
}
