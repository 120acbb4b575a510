// Package transport delivers finished catalog artifacts to their sinks.
package transport

import (
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/config"
	"github.com/raushankrgupta/catalog-scraper/models"
)

// SFTPUploader pushes catalog files to the partner drop site. The remote
// layout mirrors the local one: <remote>/<country>/<brand>-<country>/.
type SFTPUploader struct {
	cfg config.SFTPConfig
	log *zap.SugaredLogger
}

// StoreUpload pairs a store with its finished artifacts.
type StoreUpload struct {
	Store models.StoreInfo
	Paths []string
}

func NewSFTPUploader(cfg config.SFTPConfig, log *zap.SugaredLogger) *SFTPUploader {
	return &SFTPUploader{cfg: cfg, log: log}
}

// UploadStoreCatalog uploads the given files for one store.
func (u *SFTPUploader) UploadStoreCatalog(store models.StoreInfo, paths []string) error {
	client, closer, err := u.dial()
	if err != nil {
		return err
	}
	defer closer()

	return u.uploadStore(client, store, paths)
}

// UploadMultipleStores uploads several stores over one connection.
// A failed store is logged and skipped; the error of the last failure is
// returned so the caller still sees a partial-failure signal.
func (u *SFTPUploader) UploadMultipleStores(uploads []StoreUpload) error {
	client, closer, err := u.dial()
	if err != nil {
		return err
	}
	defer closer()

	var lastErr error
	for _, up := range uploads {
		if err := u.uploadStore(client, up.Store, up.Paths); err != nil {
			u.log.Warnw("store upload failed", "store", up.Store.Source, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

func (u *SFTPUploader) dial() (*sftp.Client, func(), error) {
	addr := net.JoinHostPort(u.cfg.Host, u.cfg.Port)
	sshConfig := &ssh.ClientConfig{
		User: u.cfg.User,
		Auth: []ssh.AuthMethod{ssh.Password(u.cfg.Password)},
		// Partner drop sites rotate host keys without notice
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
	}

	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial sftp host %s: %w", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open sftp session: %w", err)
	}

	closer := func() {
		client.Close()
		conn.Close()
	}
	return client, closer, nil
}

func (u *SFTPUploader) uploadStore(client *sftp.Client, store models.StoreInfo, paths []string) error {
	remoteDir := path.Join(u.cfg.RemoteDir, catalog.StorePrefix(store))

	if err := client.MkdirAll(remoteDir); err != nil {
		return fmt.Errorf("failed to create remote dir %s: %w", remoteDir, err)
	}

	for _, localPath := range paths {
		remotePath := path.Join(remoteDir, filepath.Base(localPath))
		if err := u.uploadFile(client, localPath, remotePath); err != nil {
			return err
		}
		u.log.Infow("uploaded", "local", localPath, "remote", remotePath)
	}
	return nil
}

func (u *SFTPUploader) uploadFile(client *sftp.Client, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to upload %s: %w", remotePath, err)
	}
	return nil
}
