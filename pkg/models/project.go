package models

// FrameworkInfo describes the detected frontend framework.
type FrameworkInfo struct {
	Name          string   `json:"name"`
	Version       string   `json:"version,omitempty"`
	RouterType    string   `json:"routerType,omitempty"`
	RenderingMode string   `json:"renderingMode,omitempty"`
	Features      []string `json:"features,omitempty"`
}

// DependencyStats counts the declared dependencies of the analyzed project.
type DependencyStats struct {
	Production  int `json:"production"`
	Development int `json:"development"`
	Total       int `json:"total"`
}

// ProjectContext is what the manifest detector learned about the project being
// measured. It lets the pipeline tailor recommendations to the stack; a nil
// context simply yields generic guidance.
type ProjectContext struct {
	Framework              *FrameworkInfo  `json:"framework"`
	PackageManager         string          `json:"packageManager"`
	BuildTool              string          `json:"buildTool,omitempty"`
	UILibrary              string          `json:"uiLibrary,omitempty"`
	CSSSolution            string          `json:"cssSolution,omitempty"`
	IsTypeScript           bool            `json:"isTypeScript"`
	ImageOptimization      string          `json:"imageOptimization,omitempty"`
	Analytics              []string        `json:"analytics"`
	ThirdPartyIntegrations []string        `json:"thirdPartyIntegrations"`
	Dependencies           DependencyStats `json:"dependencies"`
}

// FrameworkNext is the framework name that triggers Next.js-specific guidance.
const FrameworkNext = "next"
