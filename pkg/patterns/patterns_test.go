package patterns

import (
	"slices"
	"testing"

	"github.com/matzehuels/stackprint/pkg/syntax"
)

func jsFile(path string, imports ...string) *syntax.FileAnalysis {
	return &syntax.FileAnalysis{
		FilePath: path,
		Language: syntax.LanguageJavaScript,
		Imports:  imports,
	}
}

func TestBasePackage(t *testing.T) {
	tests := []struct {
		imp    string
		lang   syntax.Language
		want   string
		wantOK bool
	}{
		{"react", syntax.LanguageJavaScript, "react", true},
		{"next/router", syntax.LanguageJavaScript, "next", true},
		{"@angular/core", syntax.LanguageTypeScript, "@angular/core", true},
		{"@mui/material/Button", syntax.LanguageTypeScript, "@mui/material", true},
		{"./utils", syntax.LanguageJavaScript, "./utils", false},
		{"../lib/x", syntax.LanguageJavaScript, "../lib/x", false},
		{"django.db.models", syntax.LanguagePython, "django", true},
		{".models", syntax.LanguagePython, ".models", false},
		{"lodash.debounce", syntax.LanguageJavaScript, "lodash.debounce", true},
	}
	for _, tt := range tests {
		t.Run(tt.imp, func(t *testing.T) {
			got, ok := BasePackage(tt.imp, tt.lang)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("BasePackage(%q) = (%q, %v), want (%q, %v)", tt.imp, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDetectFrameworks(t *testing.T) {
	tests := []struct {
		name     string
		analyses []*syntax.FileAnalysis
		want     []string
	}{
		{
			name:     "exact match only",
			analyses: []*syntax.FileAnalysis{jsFile("a.js", "react-native", "next/router")},
			want:     []string{"next"},
		},
		{
			name: "scoped and sorted",
			analyses: []*syntax.FileAnalysis{
				jsFile("a.ts", "@nestjs/core", "express"),
				jsFile("b.ts", "@angular/core", "express"),
			},
			want: []string{"angular", "express", "nest"},
		},
		{
			name: "python modules",
			analyses: []*syntax.FileAnalysis{{
				Language: syntax.LanguagePython,
				Imports:  []string{"django.db", "flask_cors", "fastapi"},
			}},
			want: []string{"django", "fastapi"},
		},
		{
			name:     "relative ignored",
			analyses: []*syntax.FileAnalysis{jsFile("a.js", "./react", "../vue")},
			want:     []string{},
		},
		{
			name: "empty",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectFrameworks(tt.analyses)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DetectFrameworks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectStateManagement(t *testing.T) {
	contextFile := &syntax.FileAnalysis{
		Language: syntax.LanguageJavaScript,
		Hooks:    []syntax.HookInfo{{Name: "useContext", Category: syntax.HookContext}},
	}

	tests := []struct {
		name     string
		analyses []*syntax.FileAnalysis
		want     string
	}{
		{
			name:     "redux toolkit counts as redux",
			analyses: []*syntax.FileAnalysis{jsFile("a.js", "@reduxjs/toolkit", "react-redux", "zustand")},
			want:     "redux",
		},
		{
			name:     "tie goes to first seen",
			analyses: []*syntax.FileAnalysis{jsFile("a.js", "jotai"), jsFile("b.js", "mobx")},
			want:     "jotai",
		},
		{
			name:     "context counted once per file",
			analyses: []*syntax.FileAnalysis{contextFile, contextFile, jsFile("c.js", "recoil")},
			want:     StateContext,
		},
		{
			name:     "nothing observed",
			analyses: []*syntax.FileAnalysis{jsFile("a.js", "react")},
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectStateManagement(tt.analyses); got != tt.want {
				t.Errorf("DetectStateManagement() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectComponentStyle(t *testing.T) {
	hooks := []syntax.HookInfo{{Name: "useState", Category: syntax.HookState}}
	functional := func(exported int) *syntax.FileAnalysis {
		fa := &syntax.FileAnalysis{Hooks: hooks}
		for i := 0; i < exported; i++ {
			fa.Functions = append(fa.Functions, syntax.FunctionInfo{Name: "F", IsExported: true})
		}
		return fa
	}
	class := func(base string) *syntax.FileAnalysis {
		return &syntax.FileAnalysis{Classes: []syntax.ClassInfo{{Name: "C", BaseClass: base}}}
	}

	tests := []struct {
		name     string
		analyses []*syntax.FileAnalysis
		want     ComponentStyle
	}{
		{"empty", nil, StyleUnknown},
		{"hook file without exports counts once", []*syntax.FileAnalysis{functional(0)}, StyleFunctional},
		{"classes dominate", []*syntax.FileAnalysis{class("React.Component"), class("PureComponent"), class("Component"), functional(1)}, StyleClass},
		{"balanced", []*syntax.FileAnalysis{class("Component"), functional(2)}, StyleMixed},
		{"functions dominate", []*syntax.FileAnalysis{class("Component"), functional(3)}, StyleFunctional},
		{"non component classes ignored", []*syntax.FileAnalysis{class("Error"), class("")}, StyleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectComponentStyle(tt.analyses); got != tt.want {
				t.Errorf("DetectComponentStyle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTopImports(t *testing.T) {
	analyses := []*syntax.FileAnalysis{
		jsFile("a.js", "lodash/fp", "react", "./util"),
		jsFile("b.js", "react", "lodash", "react-dom/client"),
		jsFile("c.js", "react", "./util"),
	}

	got := TopImports(analyses, 3)
	want := []ImportCount{
		{Module: "react", Count: 3},
		{Module: "lodash", Count: 2},
		{Module: "./util", Count: 2},
	}
	if !slices.Equal(got, want) {
		t.Errorf("TopImports() = %v, want %v", got, want)
	}

	if all := TopImports(analyses, 0); len(all) != 4 {
		t.Errorf("TopImports(limit 0) returned %d entries, want 4", len(all))
	}
}

func TestDetectEmpty(t *testing.T) {
	p := Detect(nil)

	if p.ComponentStyle != StyleUnknown {
		t.Errorf("ComponentStyle = %q, want unknown", p.ComponentStyle)
	}
	if p.StateManagement != "" {
		t.Errorf("StateManagement = %q, want empty", p.StateManagement)
	}
	if p.Frameworks == nil || len(p.Frameworks) != 0 {
		t.Errorf("Frameworks = %v, want empty non-nil", p.Frameworks)
	}
	if p.UsesHooks || p.UsesAsync || p.UsesTypedLanguage || p.UsesMarkupSyntax {
		t.Errorf("flags set on empty input: %+v", p)
	}
}

func TestDetectFlags(t *testing.T) {
	analyses := []*syntax.FileAnalysis{
		{
			FilePath:  "src/App.tsx",
			Language:  syntax.LanguageTypeScript,
			Imports:   []string{"react", "zustand"},
			Functions: []syntax.FunctionInfo{{Name: "App", IsExported: true}},
			Hooks:     []syntax.HookInfo{{Name: "useStore", Category: syntax.HookCustom}},
		},
		{
			FilePath:  "server/api.py",
			Language:  syntax.LanguagePython,
			Imports:   []string{"fastapi"},
			Functions: []syntax.FunctionInfo{{Name: "handler", IsAsync: true, IsExported: true}},
		},
	}

	p := Detect(analyses)
	if !p.UsesHooks || !p.UsesAsync || !p.UsesTypedLanguage || !p.UsesMarkupSyntax {
		t.Errorf("expected every flag set: %+v", p)
	}
	if !slices.Equal(p.Frameworks, []string{"fastapi", "react"}) {
		t.Errorf("Frameworks = %v", p.Frameworks)
	}
	if p.StateManagement != "zustand" {
		t.Errorf("StateManagement = %q, want zustand", p.StateManagement)
	}
	if p.ComponentStyle != StyleFunctional {
		t.Errorf("ComponentStyle = %q, want functional", p.ComponentStyle)
	}
	if p.FilesAnalyzed != 2 {
		t.Errorf("FilesAnalyzed = %d, want 2", p.FilesAnalyzed)
	}
}

func TestDetectDeterministic(t *testing.T) {
	analyses := []*syntax.FileAnalysis{
		jsFile("a.js", "mobx", "vue", "express"),
		jsFile("b.js", "recoil", "koa", "svelte"),
	}
	first := Detect(analyses)
	for i := 0; i < 20; i++ {
		again := Detect(analyses)
		if again.StateManagement != first.StateManagement ||
			!slices.Equal(again.Frameworks, first.Frameworks) ||
			!slices.Equal(again.TopImports, first.TopImports) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
