package deps

// Language groups the manifest parsers of one ecosystem family.
type Language struct {
	Name            string
	ManifestTypes   []string
	ManifestAliases map[string]string
	NewManifest     func(name string) ManifestParser
	ManifestParsers func() []ManifestParser
}

// Manifest returns the parser registered under name or one of its aliases.
func (l *Language) Manifest(name string) (ManifestParser, bool) {
	if l.NewManifest == nil {
		return nil, false
	}
	p := l.NewManifest(l.alias(l.ManifestAliases, name))
	return p, p != nil
}

// Parsers returns every parser of the language.
func (l *Language) Parsers() []ManifestParser {
	if l.ManifestParsers == nil {
		return nil
	}
	return l.ManifestParsers()
}

func (l *Language) alias(m map[string]string, name string) string {
	if v, ok := m[name]; ok {
		return v
	}
	return name
}
