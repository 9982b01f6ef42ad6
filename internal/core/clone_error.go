package core

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// CloneErrorKind classifies why a git clone or update failed.
type CloneErrorKind int

const (
	CloneErrUnknown CloneErrorKind = iota
	CloneErrAuth
	CloneErrRepoNotFound
	CloneErrNetwork
	CloneErrSSHKey
	CloneErrHostKey
	CloneErrTimeout
)

func (k CloneErrorKind) String() string {
	switch k {
	case CloneErrAuth:
		return "authentication required"
	case CloneErrRepoNotFound:
		return "repository not found"
	case CloneErrNetwork:
		return "network error"
	case CloneErrSSHKey:
		return "ssh key error"
	case CloneErrHostKey:
		return "ssh host key error"
	case CloneErrTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// CloneError wraps git output with a classification and hints for the user.
type CloneError struct {
	Kind      CloneErrorKind
	URL       string
	Command   string
	RawOutput string
	Hints     []string
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("%s failed (%s): %s", e.Command, e.Kind, e.firstLine())
}

func (e *CloneError) firstLine() string {
	for _, line := range strings.Split(e.RawOutput, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	return "no output"
}

// AsCloneError finds a *CloneError in err's chain.
func AsCloneError(err error) (*CloneError, bool) {
	var ce *CloneError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ClassifyCloneError builds a CloneError from the output of a failed git
// command.
func ClassifyCloneError(url, command, output string) *CloneError {
	kind := classifyGitOutput(output)
	return &CloneError{
		Kind:      kind,
		URL:       url,
		Command:   command,
		RawOutput: strings.TrimSpace(output),
		Hints:     cloneHints(kind),
	}
}

var cloneErrorPatterns = []struct {
	kind     CloneErrorKind
	patterns []string
}{
	// Timeouts are reported by us, not git, so they are checked first.
	{CloneErrTimeout, []string{"timed out after"}},
	{CloneErrSSHKey, []string{"permission denied (publickey)", "no such identity", "load key", "identity file"}},
	{CloneErrHostKey, []string{"host key verification failed", "known_hosts"}},
	{CloneErrAuth, []string{"could not read username", "could not read password", "authentication failed", "invalid credentials", "returned error: 401", "returned error: 403"}},
	{CloneErrRepoNotFound, []string{"repository not found", "does not appear to be a git repository", "does not exist", "not found"}},
	{CloneErrNetwork, []string{"could not resolve host", "connection refused", "connection timed out", "network is unreachable", "no route to host"}},
}

func classifyGitOutput(output string) CloneErrorKind {
	lower := strings.ToLower(output)
	for _, c := range cloneErrorPatterns {
		for _, p := range c.patterns {
			if strings.Contains(lower, p) {
				return c.kind
			}
		}
	}
	return CloneErrUnknown
}

func cloneHints(kind CloneErrorKind) []string {
	switch kind {
	case CloneErrAuth:
		return []string{"Skill repositories must be readable without credentials"}
	case CloneErrSSHKey, CloneErrHostKey:
		return []string{"Use the https:// URL of the repository instead of the SSH one"}
	case CloneErrRepoNotFound:
		return []string{"Verify the repository URL is correct"}
	case CloneErrNetwork:
		return []string{"Check your internet connection and the host name in the URL"}
	case CloneErrTimeout:
		return []string{"The repository may be very large or the server unreachable; try again"}
	default:
		return []string{"Try cloning manually with `git clone <url>` to diagnose the issue"}
	}
}
