// Package plugins provides exec-based plugin support: standalone binaries
// named recdiff-<command> are discovered and executed when an unknown
// command is invoked, the way git and kubectl dispatch to plugins.
package plugins

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Find locates the plugin binary recdiff-<command>, searching the recdiff
// binary's own directory, then ~/.recdiff/plugins/, then PATH.
func Find(command string) (string, error) {
	name := "recdiff-" + command

	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".recdiff", "plugins"))
	}

	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

// Run executes a plugin with the given arguments, wiring through stdio, and
// returns the plugin's exit code.
func Run(path string, args []string) int {
	cmd := exec.Command(path, args...) // #nosec G204 -- plugin path comes from controlled discovery
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 1
	}
	return 0
}

// NotFoundMessage formats the error shown when an unknown command has no
// matching plugin.
func NotFoundMessage(command string) string {
	return fmt.Sprintf(`Error: unknown command %q

No plugin binary recdiff-%s was found. Plugins are searched for in:
  1. The directory containing the recdiff binary
  2. ~/.recdiff/plugins/
  3. PATH

Run 'recdiff --help' for available commands.`, command, command)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}
