// Package probe gathers the environment facts sent with a session
// registration: hostname, friendly device name, remote-shell flag, and
// git repository details for the working directory.
//
// Every shell-out runs under a short deadline so a wedged subprocess can
// never hold up a hook.
package probe

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout bounds each subprocess call.
const commandTimeout = 2 * time.Second

// Info is the flat record of everything the probe discovered. Git fields
// are empty when the working directory is not a repository or git is
// unavailable.
type Info struct {
	Hostname   string
	DeviceName string
	IsRemote   bool
	RepoName   string
	RemoteURL  string
	Branch     string
}

// Collect gathers environment info for cwd.
func Collect(ctx context.Context, cwd string) Info {
	info := Info{
		Hostname: hostname(),
		IsRemote: isRemoteSession(),
	}
	info.DeviceName = deviceName(ctx, info.Hostname)

	info.RemoteURL, info.RepoName = remoteInfo(ctx, cwd)
	info.Branch = currentBranch(ctx, cwd)

	return info
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
}

// deviceName prefers the macOS computer name over the raw hostname.
func deviceName(ctx context.Context, fallback string) string {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, "scutil", "--get", "ComputerName").Output()
	if err != nil {
		return fallback
	}
	if name := strings.TrimSpace(string(output)); name != "" {
		return name
	}
	return fallback
}

// isRemoteSession checks common remote-shell indicators.
func isRemoteSession() bool {
	if os.Getenv("SSH_CLIENT") != "" || os.Getenv("SSH_TTY") != "" {
		return true
	}
	return os.Getenv("CLAUDE_CODE_REMOTE") == "true"
}

// remoteInfo returns the origin remote URL and the repository name
// derived from it.
func remoteInfo(ctx context.Context, cwd string) (remoteURL, repoName string) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "remote", "get-url", "origin")
	cmd.Dir = cwd
	output, err := cmd.Output()
	if err != nil {
		return "", ""
	}

	remoteURL = strings.TrimSpace(string(output))
	return remoteURL, extractRepoName(remoteURL)
}

// currentBranch returns the checked-out branch, empty on detached HEAD.
func currentBranch(ctx context.Context, cwd string) string {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "branch", "--show-current")
	cmd.Dir = cwd
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// extractRepoName extracts the repository name from a git remote URL,
// handling SSH (git@host:user/repo.git) and HTTPS forms.
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")
	url = strings.TrimSuffix(url, "/")

	if strings.HasPrefix(url, "git@") {
		if _, rest, ok := strings.Cut(url, ":"); ok {
			url = rest
		}
	}

	parts := strings.Split(url, "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
