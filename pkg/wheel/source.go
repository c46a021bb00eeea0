// SPDX-License-Identifier: MPL-2.0

package wheel

import "strings"

// SourceExtension is the extension of interpreted Python source files.
const SourceExtension = ".py"

// SourceFile is a project file selected for the wheel body.
type SourceFile struct {
	// ArcPath is the slash-separated path inside the wheel.
	ArcPath string
	// Path is the absolute path on disk.
	Path string
}

// FilterSource drops every Python source file from files, keeping the order
// of the rest. Editable wheels reach their sources through the .pth and
// bootstrap files, so only data files stay in the body.
//
// The filter is deliberately coarse: it removes all ".py" files, not only
// those of redirected packages.
func FilterSource(files []SourceFile) []SourceFile {
	kept := make([]SourceFile, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f.ArcPath, SourceExtension) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}
