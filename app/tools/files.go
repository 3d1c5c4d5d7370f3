package tools

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/lalomorales22/ditto/app/utils"
)

// The file handlers mirror the helper contract the builder prompt promises
// the model: I/O problems come back as descriptive result text, not as
// dispatch failures, so the model can read them and react on the next round.

func withParsed[T any](params any, op string, f func(T) (string, error)) (string, error) {
	v, err := utils.CastAny[T](params)
	if err != nil {
		log.Printf("❌ Error parsing %s action: %v\n", op, err)
		return "", err
	}
	if v == nil {
		log.Printf("❌ %s action is nil\n", op)
		return "", errors.New("action is nil")
	}
	return f(*v)
}

func executeCreateDirectory(task ToolTask) (string, error) {
	return withParsed[FileAction](task.Parameters, CreateDirectory, func(fa FileAction) (string, error) {
		if _, err := os.Stat(fa.Path); err == nil {
			return fmt.Sprintf("Directory already exists: %s", fa.Path), nil
		}
		if err := os.MkdirAll(fa.Path, 0o755); err != nil {
			return fmt.Sprintf("Error creating directory %s: %v", fa.Path, err), nil
		}
		if isRoutesDir(task.Root, fa.Path) {
			initPath := filepath.Join(fa.Path, "__init__.py")
			if err := os.WriteFile(initPath, nil, 0o644); err != nil {
				log.Printf("⚠️ Could not seed %s: %v", initPath, err)
			}
		}
		return fmt.Sprintf("Created directory: %s", fa.Path), nil
	})
}

func executeCreateFile(task ToolTask) (string, error) {
	return withParsed[FileAction](task.Parameters, CreateFile, func(fa FileAction) (string, error) {
		_, statErr := os.Stat(fa.Path)
		existed := statErr == nil
		if err := os.MkdirAll(filepath.Dir(fa.Path), 0o755); err != nil {
			return fmt.Sprintf("Error creating/updating file %s: %v", fa.Path, err), nil
		}
		if err := os.WriteFile(fa.Path, []byte(fa.Content), 0o644); err != nil {
			return fmt.Sprintf("Error creating/updating file %s: %v", fa.Path, err), nil
		}
		if existed {
			return fmt.Sprintf("Updated file: %s", fa.Path), nil
		}
		return fmt.Sprintf("Created file: %s", fa.Path), nil
	})
}

func executeUpdateFile(task ToolTask) (string, error) {
	return withParsed[FileAction](task.Parameters, UpdateFile, func(fa FileAction) (string, error) {
		if err := os.MkdirAll(filepath.Dir(fa.Path), 0o755); err != nil {
			return fmt.Sprintf("Error updating file %s: %v", fa.Path, err), nil
		}
		if err := os.WriteFile(fa.Path, []byte(fa.Content), 0o644); err != nil {
			return fmt.Sprintf("Error updating file %s: %v", fa.Path, err), nil
		}
		return fmt.Sprintf("Updated file: %s", fa.Path), nil
	})
}

func executeFetchCode(task ToolTask) (string, error) {
	return withParsed[FileAction](task.Parameters, FetchCode, func(fa FileAction) (string, error) {
		code, err := os.ReadFile(fa.FilePath)
		if err != nil {
			return fmt.Sprintf("Error fetching code from %s: %v", fa.FilePath, err), nil
		}
		return string(code), nil
	})
}

func executeTaskCompleted(ToolTask) (string, error) {
	return "Task marked as completed.", nil
}

func isRoutesDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == RoutesDir
}
