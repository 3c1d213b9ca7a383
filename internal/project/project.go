package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pagepulse/pagepulse/pkg/models"
)

// packageJSON is the slice of a Node manifest the detector reads.
type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	PackageManager  string            `json:"packageManager"`
}

// frameworks in detection order; the first dependency hit wins. More specific
// meta-frameworks sit above the libraries they build on.
var frameworks = []struct {
	dep  string
	name string
}{
	{"next", models.FrameworkNext},
	{"nuxt", "nuxt"},
	{"@remix-run/react", "remix"},
	{"gatsby", "gatsby"},
	{"@sveltejs/kit", "sveltekit"},
	{"astro", "astro"},
	{"@angular/core", "angular"},
	{"vue", "vue"},
	{"svelte", "svelte"},
	{"react", "react"},
}

var buildTools = []string{"vite", "webpack", "turbo", "esbuild", "rollup", "parcel"}

var uiLibraries = []string{"@mui/material", "antd", "@chakra-ui/react", "@mantine/core", "react-bootstrap"}

var cssSolutions = []string{"tailwindcss", "styled-components", "@emotion/react", "sass"}

// analyticsDeps maps dependency names to the analytics product they embed.
var analyticsDeps = map[string]string{
	"@vercel/analytics":       "Vercel Analytics",
	"react-ga4":               "Google Analytics",
	"@segment/analytics-next": "Segment",
	"posthog-js":              "PostHog",
	"mixpanel-browser":        "Mixpanel",
	"@sentry/react":           "Sentry",
	"@sentry/nextjs":          "Sentry",
	"hotjar":                  "Hotjar",
}

var integrationDeps = map[string]string{
	"@stripe/stripe-js":   "Stripe",
	"react-intercom":      "Intercom",
	"@hubspot/api-client": "HubSpot",
	"firebase":            "Firebase",
	"@auth0/auth0-react":  "Auth0",
	"contentful":          "Contentful",
	"@sanity/client":      "Sanity",
}

// Detect reads package.json in dir and builds the project context. A missing
// manifest is not an error; it returns (nil, nil) and the pipeline falls back
// to generic recommendations.
func Detect(dir string) (*models.ProjectContext, error) {
	manifestPath := filepath.Join(dir, "package.json")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", manifestPath, err)
	}

	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", manifestPath, err)
	}

	ctx := &models.ProjectContext{
		PackageManager: packageManager(dir, manifest.PackageManager),
		Dependencies: models.DependencyStats{
			Production:  len(manifest.Dependencies),
			Development: len(manifest.DevDependencies),
			Total:       len(manifest.Dependencies) + len(manifest.DevDependencies),
		},
	}

	all := mergedDeps(manifest)

	for _, fw := range frameworks {
		if version, ok := all[fw.dep]; ok {
			ctx.Framework = &models.FrameworkInfo{
				Name:    fw.name,
				Version: cleanVersion(version),
			}
			break
		}
	}

	ctx.IsTypeScript = hasDep(all, "typescript")
	ctx.BuildTool = firstMatch(all, buildTools)
	ctx.UILibrary = firstMatch(all, uiLibraries)
	ctx.CSSSolution = firstMatch(all, cssSolutions)

	if ctx.Framework != nil && ctx.Framework.Name == models.FrameworkNext {
		ctx.ImageOptimization = "next/image"
	}

	ctx.Analytics = matchedProducts(all, analyticsDeps)
	ctx.ThirdPartyIntegrations = matchedProducts(all, integrationDeps)

	return ctx, nil
}

func mergedDeps(manifest packageJSON) map[string]string {
	all := make(map[string]string, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for name, version := range manifest.Dependencies {
		all[name] = version
	}
	for name, version := range manifest.DevDependencies {
		all[name] = version
	}
	return all
}

func hasDep(deps map[string]string, name string) bool {
	_, ok := deps[name]
	return ok
}

func firstMatch(deps map[string]string, candidates []string) string {
	for _, candidate := range candidates {
		if hasDep(deps, candidate) {
			return candidate
		}
	}
	return ""
}

func matchedProducts(deps map[string]string, products map[string]string) []string {
	seen := make(map[string]bool)
	var names []string
	for dep, product := range products {
		if hasDep(deps, dep) && !seen[product] {
			seen[product] = true
			names = append(names, product)
		}
	}
	sort.Strings(names)
	return names
}

// packageManager resolves the manager from the manifest's packageManager field
// or the lockfile present in the directory.
func packageManager(dir, declared string) string {
	if declared != "" {
		// Field is "name@version"
		if idx := strings.IndexByte(declared, '@'); idx > 0 {
			return declared[:idx]
		}
		return declared
	}

	lockfiles := []struct {
		file    string
		manager string
	}{
		{"pnpm-lock.yaml", "pnpm"},
		{"yarn.lock", "yarn"},
		{"bun.lockb", "bun"},
		{"package-lock.json", "npm"},
	}
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.file)); err == nil {
			return lf.manager
		}
	}
	return "npm"
}

// cleanVersion strips range prefixes like ^ and ~ from a semver constraint.
func cleanVersion(version string) string {
	return strings.TrimLeft(version, "^~><= ")
}
