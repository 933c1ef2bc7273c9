package rule

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"go.uber.org/zap"
)

// RunScript executes an authored automation script with the firing context
// exposed as a `context` map and a `log` function for script output.
func RunScript(scriptContent string, context map[string]interface{}, logger *zap.Logger) error {
	script := tengo.NewScript([]byte(scriptContent))

	if err := script.Add("context", context); err != nil {
		return fmt.Errorf("failed to bind script context: %w", err)
	}

	err := script.Add("log", &tengo.UserFunction{
		Name: "log",
		Value: func(args ...tengo.Object) (tengo.Object, error) {
			parts := make([]string, 0, len(args))
			for _, arg := range args {
				parts = append(parts, fmt.Sprintf("%v", arg))
			}
			logger.Info("script log", zap.Strings("output", parts))
			return tengo.UndefinedValue, nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to bind script log: %w", err)
	}

	_, err = script.Run()
	return err
}
