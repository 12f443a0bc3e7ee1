package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/scriptbox"
	"github.com/kolkov/scriptbox/value"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		entityPath string
		watchFile  bool
	)
	cmd := &cobra.Command{
		Use:   "run <file|->",
		Short: "Run a script against an entity",
		Long: `Run a script with the entity from --entity bound as its facade.
Prints the completion value, then the entity as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			path := args[0]
			out := cmd.OutOrStdout()
			if !watchFile {
				return runFile(out, path, cmd.InOrStdin(), entityPath, opts)
			}
			if path == "-" {
				return fmt.Errorf("--watch needs a file, not stdin")
			}
			return watch(cmd.Context(), path, func() {
				if err := runFile(out, path, nil, entityPath, opts); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "scriptbox: %v\n", err)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&entityPath, "entity", "e", "", "YAML file holding the entity fields")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "re-run whenever the script changes")
	return cmd
}

// runFile runs one script against a freshly loaded entity.
func runFile(out io.Writer, path string, stdin io.Reader, entityPath string, opts *scriptbox.Options) error {
	src, err := readSource(path, stdin)
	if err != nil {
		return err
	}
	entity, err := loadEntity(entityPath)
	if err != nil {
		return err
	}

	facade := opts.FacadeName
	if facade == "" {
		facade = scriptbox.DefaultFacadeName
	}
	v, err := scriptbox.Run(src, map[string]value.Value{facade: value.ObjectOf(entity)}, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintln(out, v)
	if entity.Len() == 0 {
		return nil
	}
	return writeEntity(out, entity)
}

// loadEntity reads a YAML mapping into an object. An empty path gives an
// empty entity.
func loadEntity(path string) (*value.Object, error) {
	if path == "" {
		return value.NewObject(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeEntity(b)
}

func decodeEntity(b []byte) (*value.Object, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("entity: %w", err)
	}
	if fields == nil {
		return value.NewObject(), nil
	}
	v, err := value.FromGo(fields)
	if err != nil {
		return nil, fmt.Errorf("entity: %w", err)
	}
	obj, ok := v.AsObject().(*value.Object)
	if !ok {
		return nil, fmt.Errorf("entity: not a mapping")
	}
	return obj, nil
}

// writeEntity prints the entity as YAML in field order. Functions stored
// on it print as their display form.
func writeEntity(w io.Writer, entity *value.Object) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(entityDoc(value.ObjectOf(entity))); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// entityDoc converts v to YAML-encodable data, keeping object key order.
func entityDoc(v value.Value) any {
	switch v.Kind() {
	case value.KindObject:
		props := v.AsObject()
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, k := range props.Keys() {
			e, _ := props.Get(k)
			var val yaml.Node
			if err := val.Encode(entityDoc(e)); err != nil {
				continue
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: k},
				&val)
		}
		return node
	case value.KindArray:
		elems := v.AsArray().Elems
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = entityDoc(e)
		}
		return out
	case value.KindFunc:
		return v.String()
	default:
		return value.ToGo(v)
	}
}

// watch calls run once, then again after every write to path, until ctx
// is done. It watches the directory so editors that replace the file on
// save are noticed.
func watch(ctx context.Context, path string, run func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	target := filepath.Clean(path)
	run()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
