package command

import "fmt"

// Registry resolves player input words to Command definitions. Aliases share
// the same namespace as canonical names, so "n" and "north" cannot belong to
// different commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
}

// NewRegistry builds a Registry from the given command set. It fails when two
// commands collide on a name or alias rather than letting one shadow the
// other silently.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}
	for i := range cmds {
		cmd := &cmds[i]
		if _, taken := r.commands[cmd.Name]; taken {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, taken := r.aliases[cmd.Name]; taken {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd

		for _, alias := range cmd.Aliases {
			if _, taken := r.commands[alias]; taken {
				return nil, fmt.Errorf("alias %q conflicts with command name %q", alias, alias)
			}
			if owner, taken := r.aliases[alias]; taken {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, owner, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}
	return r, nil
}

// DefaultRegistry builds a Registry holding every built-in command. The
// built-in set is static, so a collision here is a programming error and
// panics.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up the command for an input word, following aliases to their
// canonical command. The second return is false for unknown words.
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns every registered command in no particular order.
func (r *Registry) Commands() []*Command {
	all := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		all = append(all, cmd)
	}
	return all
}

// CommandsByCategory groups the registered commands by their Category, for
// the help screen.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	categories := make(map[string][]*Command)
	for _, cmd := range r.commands {
		categories[cmd.Category] = append(categories[cmd.Category], cmd)
	}
	return categories
}
