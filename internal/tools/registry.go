package tools

// Registry holds the fixed tool set, preserving declaration order for
// tools/list.
type Registry struct {
	order []string
	table map[string]Definition
}

// NewRegistry builds the registry from definitions.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{table: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.Name == "" || def.Handler == nil {
			continue
		}
		if _, dup := r.table[def.Name]; !dup {
			r.order = append(r.order, def.Name)
		}
		r.table[def.Name] = def
	}
	return r
}

// Lookup returns the definition for a tool name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.table[name]
	return def, ok
}

// List returns all definitions in declaration order.
func (r *Registry) List() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.table[name])
	}
	return out
}

// Default declares the full FlexSim tool surface.
func Default() *Registry {
	return NewRegistry(
		Definition{
			Name:        "flexsim_open_model",
			Description: "Open a FlexSim model file (.fsm or .fsx).",
			InputSchema: GenerateSchema[OpenModelInput](),
			Handler:     openModel,
		},
		Definition{
			Name:        "flexsim_reset",
			Description: "Reset the simulation to its initial state (time 0).",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     reset,
		},
		Definition{
			Name:        "flexsim_run",
			Description: "Start running the simulation continuously.",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     run,
		},
		Definition{
			Name:        "flexsim_run_to_time",
			Description: "Run the simulation until it reaches the target time. Fast mode blocks at maximum speed; otherwise the model animates in real time.",
			InputSchema: GenerateSchema[RunToTimeInput](),
			Handler:     runToTime,
		},
		Definition{
			Name:        "flexsim_stop",
			Description: "Stop the running simulation.",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     stop,
		},
		Definition{
			Name:        "flexsim_get_time",
			Description: "Get the current simulation time.",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     getTime,
		},
		Definition{
			Name:        "flexsim_step",
			Description: "Step through simulation events one at a time.",
			InputSchema: GenerateSchema[StepInput](),
			Handler:     step,
		},
		Definition{
			Name:        "flexsim_evaluate",
			Description: "Execute FlexScript code and return the result.",
			InputSchema: GenerateSchema[EvaluateInput](),
			Handler:     evaluate,
		},
		Definition{
			Name:        "flexsim_get_node_value",
			Description: "Read a value from a FlexSim tree node.",
			InputSchema: GenerateSchema[NodeValueInput](),
			Handler:     getNodeValue,
		},
		Definition{
			Name:        "flexsim_set_node_value",
			Description: "Write a value to a FlexSim tree node and read it back.",
			InputSchema: GenerateSchema[NodeValueInput](),
			Handler:     setNodeValue,
		},
		Definition{
			Name:        "flexsim_save_model",
			Description: "Save the current model, optionally to a new path.",
			InputSchema: GenerateSchema[SaveModelInput](),
			Handler:     saveModel,
		},
		Definition{
			Name:        "flexsim_new_model",
			Description: "Create a new blank model.",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     newModel,
		},
		Definition{
			Name:        "flexsim_compile",
			Description: "Compile the model and report FlexScript errors.",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     compile,
		},
		Definition{
			Name:        "flexsim_get_statistics",
			Description: "Get simulation statistics and performance metrics.",
			InputSchema: GenerateSchema[struct{}](),
			Handler:     getStatistics,
		},
		Definition{
			Name:        "flexsim_export_results",
			Description: "Export simulation results to csv, xlsx or json.",
			InputSchema: GenerateSchema[ExportResultsInput](),
			Handler:     exportResults,
		},
	)
}
