package chunker

import (
	"regexp"

	"github.com/ferg-cod3s/lmfetch/internal/lmfetchtypes"
)

// boundaryPattern associates a regular-expression shape with a construct
// kind and an optional name-capture group (spec.md §4.2, "Boundary
// detection"). Patterns for one language are tried in order; the first
// match on a line records a boundary.
type boundaryPattern struct {
	re        *regexp.Regexp
	kind      lmfetchtypes.ChunkKind
	nameGroup int // 1-indexed capture group holding the name, 0 = no name
}

func pat(expr string, kind lmfetchtypes.ChunkKind, nameGroup int) boundaryPattern {
	return boundaryPattern{re: regexp.MustCompile(expr), kind: kind, nameGroup: nameGroup}
}

// languagePatterns maps a language tag (as produced by source.languageForPath)
// to its ordered boundary-pattern list. Grounded on the teacher's
// per-language dispatch-by-extension idiom in internal/indexer/chunker.go,
// with the boundary-detection algorithm itself rewritten to the table-driven
// shape spec.md §4.2 requires.
var languagePatterns = map[string][]boundaryPattern{
	"python": {
		pat(`^\s*(?:async\s+)?def\s+(\w+)\s*\(`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*class\s+(\w+)`, lmfetchtypes.KindClass, 1),
	},
	"javascript": jsPatterns,
	"typescript": append(jsPatterns,
		pat(`^\s*(?:export\s+)?interface\s+(\w+)`, lmfetchtypes.KindInterface, 1),
		pat(`^\s*(?:export\s+)?type\s+(\w+)\s*=`, lmfetchtypes.KindType, 1),
	),
	"go": {
		pat(`^func\s+\(\s*\w+\s+\*?(\w+)\)\s+(\w+)\s*\(`, lmfetchtypes.KindMethod, 2),
		pat(`^func\s+(\w+)\s*\(`, lmfetchtypes.KindFunction, 1),
		pat(`^type\s+(\w+)\s+interface\b`, lmfetchtypes.KindInterface, 1),
		pat(`^type\s+(\w+)\s+struct\b`, lmfetchtypes.KindClass, 1),
		pat(`^type\s+(\w+)\s+`, lmfetchtypes.KindType, 1),
		pat(`^const\s+(\w+)\s*=`, lmfetchtypes.KindConstant, 1),
		pat(`^var\s+(\w+)\s*`, lmfetchtypes.KindVariable, 1),
	},
	"rust": {
		pat(`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(\w+)`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*(?:pub(?:\([^)]*\))?\s+)?struct\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*(?:pub(?:\([^)]*\))?\s+)?enum\s+(\w+)`, lmfetchtypes.KindEnum, 1),
		pat(`^\s*(?:pub(?:\([^)]*\))?\s+)?trait\s+(\w+)`, lmfetchtypes.KindInterface, 1),
		pat(`^\s*impl(?:<[^>]*>)?\s+(?:\w+\s+for\s+)?(\w+)`, lmfetchtypes.KindModule, 1),
		pat(`^\s*mod\s+(\w+)`, lmfetchtypes.KindModule, 1),
	},
	"ruby": {
		pat(`^\s*def\s+(?:self\.)?(\w+[\?\!]?)`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*class\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*module\s+(\w+)`, lmfetchtypes.KindModule, 1),
	},
	"php": {
		pat(`^\s*(?:public|private|protected)?\s*(?:static\s+)?function\s+&?(\w+)\s*\(`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*(?:abstract\s+|final\s+)?class\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*interface\s+(\w+)`, lmfetchtypes.KindInterface, 1),
	},
	"java":  jvmPatterns,
	"kotlin": append(jvmPatterns,
		pat(`^\s*(?:public\s+|private\s+|internal\s+)?fun\s+(\w+)\s*\(`, lmfetchtypes.KindFunction, 1),
	),
	"scala": append(jvmPatterns,
		pat(`^\s*(?:override\s+)?def\s+(\w+)\s*[\[\(]`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*(?:case\s+)?object\s+(\w+)`, lmfetchtypes.KindModule, 1),
	),
	"swift": {
		pat(`^\s*(?:public\s+|private\s+|internal\s+|fileprivate\s+)?(?:static\s+)?func\s+(\w+)\s*[\(<]`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*(?:public\s+|private\s+|internal\s+)?class\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*(?:public\s+|private\s+|internal\s+)?struct\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*(?:public\s+|private\s+|internal\s+)?protocol\s+(\w+)`, lmfetchtypes.KindInterface, 1),
		pat(`^\s*(?:public\s+|private\s+|internal\s+)?enum\s+(\w+)`, lmfetchtypes.KindEnum, 1),
	},
	"csharp": {
		pat(`^\s*(?:public|private|protected|internal)?\s*(?:static\s+)?(?:async\s+)?(?:[\w<>\[\],\.]+\s+)(\w+)\s*\([^;{]*\)\s*\{?\s*$`, lmfetchtypes.KindFunction, 1),
		pat(`^\s*(?:public|private|protected|internal)?\s*(?:abstract\s+|sealed\s+|static\s+)?class\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*(?:public|private|protected|internal)?\s*interface\s+(\w+)`, lmfetchtypes.KindInterface, 1),
		pat(`^\s*(?:public|private|protected|internal)?\s*enum\s+(\w+)`, lmfetchtypes.KindEnum, 1),
	},
	"c": cLikePatterns,
	"cpp": append(cLikePatterns,
		pat(`^\s*(?:class)\s+(\w+)`, lmfetchtypes.KindClass, 1),
		pat(`^\s*namespace\s+(\w+)`, lmfetchtypes.KindModule, 1),
	),
}

var jsPatterns = []boundaryPattern{
	pat(`^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)\s*\(`, lmfetchtypes.KindFunction, 1),
	pat(`^\s*(?:export\s+)?(?:default\s+)?class\s+(\w+)`, lmfetchtypes.KindClass, 1),
	pat(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s*)?\([^)]*\)\s*(?::\s*\S+\s*)?=>`, lmfetchtypes.KindFunction, 1),
	pat(`^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?function`, lmfetchtypes.KindFunction, 1),
}

var jvmPatterns = []boundaryPattern{
	pat(`^\s*(?:public|private|protected)?\s*(?:static\s+|final\s+|abstract\s+)*(?:[\w<>\[\],\.]+\s+)(\w+)\s*\([^;{]*\)\s*\{?\s*$`, lmfetchtypes.KindFunction, 1),
	pat(`^\s*(?:public|private|protected)?\s*(?:abstract\s+|final\s+|static\s+)*class\s+(\w+)`, lmfetchtypes.KindClass, 1),
	pat(`^\s*(?:public|private|protected)?\s*interface\s+(\w+)`, lmfetchtypes.KindInterface, 1),
	pat(`^\s*(?:public|private|protected)?\s*enum\s+(\w+)`, lmfetchtypes.KindEnum, 1),
}

var cLikePatterns = []boundaryPattern{
	pat(`^\s*(?:static\s+|inline\s+)*[\w\*][\w\s\*]*\b(\w+)\s*\([^;]*\)\s*\{?\s*$`, lmfetchtypes.KindFunction, 1),
	pat(`^\s*struct\s+(\w+)`, lmfetchtypes.KindClass, 1),
	pat(`^\s*enum\s+(\w+)`, lmfetchtypes.KindEnum, 1),
	pat(`^\s*typedef\s+.*\b(\w+)\s*;`, lmfetchtypes.KindType, 1),
}
