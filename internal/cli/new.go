package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mapweaver/mapweaver/pkg/spec"
)

// newNewCmd creates the new command for generating blank specifications.
func newNewCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "new [archetype]",
		Short: "Create a blank diagram specification",
		Long: `Create a blank diagram specification for the given archetype.

The generated file carries placeholder texts ready for editing. Run without
arguments to list the supported archetypes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				printInfo("Supported archetypes:")
				for _, a := range spec.All() {
					fmt.Println("  " + StyleValue.Render(string(a)))
				}
				return nil
			}
			return runNew(spec.Archetype(args[0]), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <archetype>.json)")

	return cmd
}

func runNew(archetype spec.Archetype, output string) error {
	s, err := spec.Template(archetype)
	if err != nil {
		return err
	}

	if output == "" {
		output = string(archetype) + ".json"
	}
	if err := spec.WriteFile(s, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Created %s specification", archetype)
	printFile(output)
	printNewline()
	printNextStep("Compile", "mapweaver compile "+output)
	return nil
}
