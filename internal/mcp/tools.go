package mcp

// FindFilesInput defines the input schema for the find_files tool.
type FindFilesInput struct {
	Query string `json:"query" jsonschema:"partial file name or path fragment, in the search engine's query syntax"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 10"`
}

// FindFilesOutput defines the output schema for the find_files tool.
type FindFilesOutput struct {
	Results []FileResult `json:"results" jsonschema:"matches in relevance order"`
}

// FileResult is one match returned by find_files.
type FileResult struct {
	Name  string `json:"name" jsonschema:"file or folder name"`
	Path  string `json:"path" jsonschema:"absolute path"`
	Kind  string `json:"kind" jsonschema:"file, folder or unknown"`
	Score int    `json:"score" jsonschema:"rank score, higher is more relevant"`
}

// FileActionsInput defines the input schema for the file_actions tool.
type FileActionsInput struct {
	Path string `json:"path" jsonschema:"absolute path of a file or folder"`
	Kind string `json:"kind,omitempty" jsonschema:"file or folder, default file"`
}

// FileActionsOutput defines the output schema for the file_actions tool.
type FileActionsOutput struct {
	Path    string       `json:"path"`
	Actions []ActionInfo `json:"actions" jsonschema:"context menu entries in display order"`
}

// ActionInfo describes one context menu entry. Actions are listed, never run.
type ActionInfo struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Kind    string `json:"kind" jsonschema:"run, copy_text, copy_file or delete"`
	Command string `json:"command,omitempty" jsonschema:"program a run action would start"`
}
