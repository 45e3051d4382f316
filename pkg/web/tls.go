package web

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"sync"

	"github.com/charmbracelet/log"
)

// CertReloader serves a TLS key pair that can be swapped at runtime.
type CertReloader struct {
	certMu   sync.RWMutex
	cert     *tls.Certificate
	certPath string
	keyPath  string
}

// NewCertReloader loads the key pair at certPath and keyPath.
func NewCertReloader(certPath, keyPath string) (*CertReloader, error) {
	cr := &CertReloader{
		certPath: certPath,
		keyPath:  keyPath,
	}
	if err := cr.Reload(); err != nil {
		return nil, err
	}

	return cr, nil
}

// Reload reads the key pair from disk again. The current certificate is
// kept when loading fails.
func (cr *CertReloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(cr.certPath, cr.keyPath)
	if err != nil {
		return err
	}

	cr.certMu.Lock()
	defer cr.certMu.Unlock()
	cr.cert = &cert
	return nil
}

// Watch reloads the key pair whenever one of sigs is received, until ctx is
// done. Without signals it does nothing.
func (cr *CertReloader) Watch(ctx context.Context, sigs ...os.Signal) {
	if len(sigs) == 0 {
		return
	}
	logger := log.FromContext(ctx).WithPrefix("http.tls")
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				logger.Info("reloading TLS certificate and key", "cert", cr.certPath, "key", cr.keyPath)
				if err := cr.Reload(); err != nil {
					logger.Error("failed to reload TLS certificate, keeping old certificate", "err", err)
				}
			}
		}
	}()
}

// GetCertificateFunc returns a function that can be used with tls.Config.GetCertificate.
func (cr *CertReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		cr.certMu.RLock()
		defer cr.certMu.RUnlock()
		return cr.cert, nil
	}
}

// TLSConfig returns a server TLS configuration backed by the reloader.
func (cr *CertReloader) TLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:     tls.VersionTLS12,
		GetCertificate: cr.GetCertificateFunc(),
	}
}
