package tools

// Tool names exposed to the model.
const (
	CreateDirectory = "create_directory"
	CreateFile      = "create_file"
	UpdateFile      = "update_file"
	FetchCode       = "fetch_code"
	TaskCompleted   = "task_completed"
)

// RoutesDir is the reserved subdirectory for modular route files. Creating
// it also seeds an empty __init__.py so the generated app can import it as
// a package.
const RoutesDir = "routes"

type Tool struct {
	Name        string                         `json:"name"`
	Description string                         `json:"description"`
	Parameters  Parameter                      `json:"parameters"`
	HandlerFunc func(ToolTask) (string, error) `json:"-"`
}

type Parameter struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// ToolTask is one resolved invocation: the tool key, the parsed argument
// mapping (paths already rewritten into Root), and the sandbox root itself.
type ToolTask struct {
	Key        string         `json:"key"`
	Parameters map[string]any `json:"parameters"`
	Root       string         `json:"root"`
}

// BuilderToolkit returns the tool set the app-builder run exposes to the
// model. The map doubles as the provider-facing schema and the dispatch
// table.
func BuilderToolkit() map[string]Tool {
	return map[string]Tool{
		CreateDirectory: {
			Name:        CreateDirectory,
			Description: "Creates a new directory at the specified path.",
			Parameters: Parameter{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "The directory path to create.",
					},
				},
				Required: []string{"path"},
			},
			HandlerFunc: executeCreateDirectory,
		},
		CreateFile: {
			Name:        CreateFile,
			Description: "Creates or updates a file at the specified path with the given content.",
			Parameters: Parameter{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "The file path to create or update.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The content to write into the file.",
					},
				},
				Required: []string{"path", "content"},
			},
			HandlerFunc: executeCreateFile,
		},
		UpdateFile: {
			Name:        UpdateFile,
			Description: "Updates an existing file at the specified path with the new content.",
			Parameters: Parameter{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "The file path to update.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The new content to write into the file.",
					},
				},
				Required: []string{"path", "content"},
			},
			HandlerFunc: executeUpdateFile,
		},
		FetchCode: {
			Name:        FetchCode,
			Description: "Retrieves the code from the specified file path.",
			Parameters: Parameter{
				Type: "object",
				Properties: map[string]any{
					"file_path": map[string]any{
						"type":        "string",
						"description": "The file path to fetch the code from.",
					},
				},
				Required: []string{"file_path"},
			},
			HandlerFunc: executeFetchCode,
		},
		TaskCompleted: {
			Name:        TaskCompleted,
			Description: "Indicates that the assistant has completed the task.",
			Parameters: Parameter{
				Type:       "object",
				Properties: map[string]any{},
				Required:   []string{},
			},
			HandlerFunc: executeTaskCompleted,
		},
	}
}
