package resources

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/oshokin/java-packager/internal/fsutil"
	"github.com/oshokin/java-packager/internal/logger"
)

// Template names an embedded descriptor template.
type Template string

const (
	// MacInfoPlist is the bundle property list.
	MacInfoPlist Template = "mac/Info.plist.tmpl"
	// MacStartup is the bundle launcher in Contents/MacOS.
	MacStartup Template = "mac/startup.tmpl"
	// LinuxStartup is the shell stub prepended to the jar.
	LinuxStartup Template = "linux/startup.sh.tmpl"
	// LinuxDesktop is the freedesktop.org menu entry.
	LinuxDesktop Template = "linux/desktop.tmpl"
	// LinuxControl is the DEB control file.
	LinuxControl Template = "linux/control.tmpl"
	// WindowsManifest sets the requested execution level.
	WindowsManifest Template = "windows/exe.manifest.tmpl"
	// WindowsLaunch4j configures the launch4j executable wrapper.
	WindowsLaunch4j Template = "windows/launch4j.xml.tmpl"
	// WindowsInstaller is the Inno Setup script.
	WindowsInstaller Template = "windows/iss.tmpl"
)

const renderedFileMode os.FileMode = 0o644

// funcs are available to every template.
var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"xml":   escapeXML,
}

// Render executes the template with data and writes the result to dst.
// Unknown keys are errors, so a template never silently renders "<no value>".
func Render(ctx context.Context, name Template, dst string, data map[string]any) error {
	tmpl, err := template.New(path.Base(string(name))).
		Option("missingkey=error").
		Funcs(funcs).
		ParseFS(files, path.Join("templates", string(name)))
	if err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err = tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	if err = fsutil.EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	if err = os.WriteFile(dst, buf.Bytes(), renderedFileMode); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	logger.DebugKV(ctx, "Rendered template", "template", string(name), "path", dst)

	return nil
}

func escapeXML(v any) (string, error) {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(fmt.Sprint(v))); err != nil {
		return "", err
	}

	return buf.String(), nil
}
