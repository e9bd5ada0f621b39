package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jtoberling/logos"
	"github.com/jtoberling/logos/engine/store"
	"github.com/jtoberling/logos/memory"
)

func newQueryCmd() *cobra.Command {
	var limit int
	var asPrompt bool

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Retrieve constitution and relevant memories for a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			if asPrompt {
				fmt.Println(eng.service.SystemPrompt(cmd.Context(), args[0], limit))
				return nil
			}
			return printJSON(eng.service.Query(cmd.Context(), args[0], limit))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum results per collection")
	cmd.Flags().BoolVar(&asPrompt, "prompt", false, "print the assembled system prompt instead of the JSON bundle")
	return cmd
}

func newContextCmd() *cobra.Command {
	var collection string
	var limit int

	cmd := &cobra.Command{
		Use:   "context <question>",
		Short: "Search memory collections for relevant context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			return printJSON(eng.service.MemoryContext(cmd.Context(), args[0], collection, limit))
		},
	}
	cmd.Flags().StringVar(&collection, "collection", "both", "collection selector: essence, project, or both")
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum results")
	return cmd
}

func newLetterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Manage Letters for Future Self",
	}
	cmd.AddCommand(newLetterWriteCmd(), newLetterRecentCmd(), newLetterByCreatorCmd(), newLetterStatsCmd())
	return cmd
}

func newLetterWriteCmd() *cobra.Command {
	var summary, emotional, lesson, creator string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Create and store a Letter for Future Self",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			letter, err := eng.protocol.CreateAndStoreLetter(cmd.Context(), summary, emotional, lesson, creator)
			if err != nil {
				return err
			}
			fmt.Printf("Stored letter %s\n", letter.LetterID)
			return nil
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "what happened in the interaction (required)")
	cmd.Flags().StringVar(&emotional, "context", "", "how the interaction felt (required)")
	cmd.Flags().StringVar(&lesson, "lesson", "", "key lesson or insight gained")
	cmd.Flags().StringVar(&creator, "creator", "unknown", "who created this letter")
	cmd.MarkFlagRequired("summary")
	cmd.MarkFlagRequired("context")
	return cmd
}

func newLetterRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Retrieve recent letters",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			results, err := eng.protocol.GetRecentLetters(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printLetters(results)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum letters to retrieve")
	return cmd
}

func newLetterByCreatorCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "by-creator <creator>",
		Short: "Retrieve letters by a specific creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			results, err := eng.protocol.GetLettersByCreator(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			printLetters(results)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum letters to retrieve")
	return cmd
}

func newLetterStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show letter statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			return printJSON(eng.protocol.Statistics(cmd.Context()))
		},
	}
}

func newIngestCmd() *cobra.Command {
	var collection, source string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest extracted plain text into a knowledge collection",
		Long: "Reads a plain-text or markdown file, cleans and chunks it, and stores the\n" +
			"chunks in the selected collection. Binary formats must be extracted to text\n" +
			"upstream before ingestion.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}

			if source == "" {
				source = filepath.Base(args[0])
			}
			meta := map[string]string{"source": source}

			count, err := eng.ingestor.IngestText(cmd.Context(), collection, string(data), meta)
			if err != nil {
				return err
			}
			fmt.Printf("Ingested %d chunks from %s into %s\n", count, args[0], collection)
			return nil
		},
	}
	cmd.Flags().StringVar(&collection, "collection", store.KnowledgeCollection, "target collection")
	cmd.Flags().StringVar(&source, "source", "", "source label stored with each chunk (default: file name)")
	return cmd
}

func newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "Show collection statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			return printJSON(eng.service.Stats(cmd.Context()))
		},
	}
}

func newConstitutionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "constitution",
		Short: "Print the complete constitution text",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			fmt.Println(eng.service.Constitution())
			return nil
		},
	}
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tool definitions exposed to gateways",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine(cmd)
			if err != nil {
				return err
			}
			return printJSON(eng.registry.Definitions())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(map[string]string{
				"version":     logos.Version,
				"author":      logos.Author,
				"description": logos.Description,
				"url":         logos.URL,
			})
		},
	}
}

func printLetters(results []store.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No letters found.")
		return
	}
	for _, result := range results {
		fmt.Printf("%s  score=%.3f  creator=%s\n  %s\n",
			result.Payload["letter_id"],
			result.Score,
			result.Payload["creator"],
			memory.ParseSummary(result.Text()),
		)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
