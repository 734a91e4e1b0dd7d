package mirror

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/mkoval/remexec/pkg/config"
)

// sftpFS is the production RemoteFS: an SFTP session over one SSH connection
type sftpFS struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// dialSFTP opens an SFTP session against the resolved server using the
// identity file when configured, falling back to the running SSH agent.
func dialSFTP(cfg *config.Resolved) (RemoteFS, error) {
	clientConfig := &ssh.ClientConfig{
		User:            cfg.User,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), // TODO: Add host key verification
		Timeout:         30 * time.Second,
	}

	if cfg.PrivateKey != "" {
		key, err := os.ReadFile(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}
		clientConfig.Auth = append(clientConfig.Auth, ssh.PublicKeys(signer))
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if conn, err := net.Dial("unix", sock); err == nil {
			clientConfig.Auth = append(clientConfig.Auth,
				ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, fmt.Errorf("failed to open sftp session: %w", err)
	}

	return &sftpFS{sshClient: sshClient, sftpClient: sftpClient}, nil
}

func (f *sftpFS) Getwd() (string, error) {
	return f.sftpClient.Getwd()
}

func (f *sftpFS) ReadDir(path string) ([]os.FileInfo, error) {
	return f.sftpClient.ReadDir(path)
}

func (f *sftpFS) Chmod(path string, mode os.FileMode) error {
	return f.sftpClient.Chmod(path, mode)
}

func (f *sftpFS) Close() error {
	if f.sftpClient != nil {
		f.sftpClient.Close()
	}
	if f.sshClient != nil {
		f.sshClient.Close()
	}
	return nil
}
