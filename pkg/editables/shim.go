// SPDX-License-Identifier: MPL-2.0

package editables

import (
	"strings"
)

const (
	// RuntimeDependency is the distribution that provides the redirecting
	// import finder used by the bootstrap module.
	RuntimeDependency = "editables"

	finderImport  = "from editables.redirector import RedirectingFinder as F"
	finderInstall = "F.install()"
)

// Artifact is a generated file destined for the wheel root.
type Artifact struct {
	Name    string
	Content string
}

// Files returns the generated files for the current state: the .pth file
// always, and the bootstrap module when at least one name is redirected.
func (p *Project) Files() []Artifact {
	files := []Artifact{{Name: p.PthFileName(), Content: p.PthFile()}}
	if p.HasRedirections() {
		files = append(files, Artifact{Name: p.BootstrapFileName(), Content: p.BootstrapFile()})
	}
	return files
}

// Dependencies returns the runtime requirements the generated files add to
// the wheel metadata.
func (p *Project) Dependencies() []string {
	if p.HasRedirections() {
		return []string{RuntimeDependency}
	}
	return nil
}

// PthFileName returns "<name>.pth".
func (p *Project) PthFileName() string {
	return p.moduleName() + ".pth"
}

// BootstrapFileName returns "_<name>.py".
func (p *Project) BootstrapFileName() string {
	return p.bootstrapModule() + ".py"
}

// PthFile renders the path-injection file. Lines are joined with "\n" and
// the content carries no trailing newline.
func (p *Project) PthFile() string {
	lines := make([]string, 0, len(p.pathEntries)+1)
	if p.HasRedirections() {
		lines = append(lines, "import "+p.bootstrapModule())
	}
	lines = append(lines, p.pathEntries...)
	return strings.Join(lines, "\n")
}

// BootstrapFile renders the bootstrap module that installs the redirecting
// finder and registers every redirection in insertion order.
func (p *Project) BootstrapFile() string {
	lines := make([]string, 0, len(p.redirections)+2)
	lines = append(lines, finderImport, finderInstall)
	for _, r := range p.redirections {
		lines = append(lines, "F.map_module("+quote(string(r.Name))+", "+quote(r.Path)+")")
	}
	return strings.Join(lines, "\n")
}

func (p *Project) bootstrapModule() string {
	return "_" + p.moduleName()
}

// moduleName turns the project name into something importable: "-" and "."
// are not valid in a module name, so both become "_".
func (p *Project) moduleName() string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(p.name)
}
