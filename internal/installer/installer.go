// Package installer writes agent and skill definition files that teach an
// agent host how to use the webresearch tools.
package installer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Target identifies a supported agent host.
type Target string

const (
	// Claude writes an agent file and a skill file under .claude/
	Claude Target = "claude"
	// OpenCode writes an agent file under .opencode/
	OpenCode Target = "opencode"
)

const (
	// DefaultName is the agent name used when none is given.
	DefaultName = "web-researcher"
	// DefaultDescription is the agent description used when none is given.
	DefaultDescription = "Researches questions on the web: runs several searches, reads the most relevant pages and reports findings with source URLs."
)

//go:embed templates
var templates embed.FS

// File maps one embedded template to its destination, relative to the
// install root. Path may contain the {{name}} placeholder.
type File struct {
	Template string
	Path     string
}

// Profile lists the files written for a target.
type Profile struct {
	Target Target
	Files  []File
}

// ErrUnknownTarget is returned for target names that do not map to a Profile.
var ErrUnknownTarget = errors.New("unknown install target")

// GetProfile returns the profile for a target name. Common spellings are
// accepted; see normalizeTarget.
func GetProfile(target string) (Profile, error) {
	switch Target(normalizeTarget(target)) {
	case Claude:
		return Profile{Target: Claude, Files: []File{
			{Template: "templates/claude/agent.md", Path: ".claude/agents/{{name}}.md"},
			{Template: "templates/claude/skill.md", Path: ".claude/skills/{{name}}/SKILL.md"},
		}}, nil
	case OpenCode:
		return Profile{Target: OpenCode, Files: []File{
			{Template: "templates/opencode/agent.md", Path: ".opencode/agent/{{name}}.md"},
		}}, nil
	default:
		return Profile{}, fmt.Errorf("%w: %q (want claude or opencode)", ErrUnknownTarget, target)
	}
}

// Targets lists the canonical target names.
func Targets() []Target { return []Target{Claude, OpenCode} }

func normalizeTarget(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "claude", "claude-code", "claude_code", "claudecode", "claude code":
		return string(Claude)
	case "opencode", "open-code", "open_code", "open code":
		return string(OpenCode)
	default:
		return v
	}
}

// Options control Install.
type Options struct {
	Target      string
	Dir         string // install root; "" means the current directory
	Name        string
	Description string
	// Force overwrites existing files.
	Force bool
}

// Render substitutes the {{name}} and {{description}} placeholders literally.
func Render(tmpl, name, description string) string {
	return strings.NewReplacer("{{name}}", name, "{{description}}", description).Replace(tmpl)
}

// Install renders every file of the target's profile under opts.Dir and
// returns the written paths. Without Force nothing is written when any
// destination already exists.
func Install(opts Options) ([]string, error) {
	profile, err := GetProfile(opts.Target)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid agent name %q", name)
	}
	description := strings.TrimSpace(opts.Description)
	if description == "" {
		description = DefaultDescription
	}
	root := opts.Dir
	if root == "" {
		root = "."
	}

	type pending struct {
		path    string
		content string
	}
	plan := make([]pending, 0, len(profile.Files))
	for _, f := range profile.Files {
		raw, err := fs.ReadFile(templates, f.Template)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", f.Template, err)
		}
		dest := filepath.Join(root, filepath.FromSlash(Render(f.Path, name, description)))
		if !opts.Force {
			if _, err := os.Stat(dest); err == nil {
				return nil, fmt.Errorf("%s already exists (use -force to overwrite)", dest)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("stat %s: %w", dest, err)
			}
		}
		plan = append(plan, pending{path: dest, content: Render(string(raw), name, description)})
	}

	written := make([]string, 0, len(plan))
	for _, p := range plan {
		if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
			return written, fmt.Errorf("create dir for %s: %w", p.path, err)
		}
		if err := os.WriteFile(p.path, []byte(p.content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", p.path, err)
		}
		log.Debug().Str("target", string(profile.Target)).Str("path", p.path).Msg("installed file")
		written = append(written, p.path)
	}
	return written, nil
}
