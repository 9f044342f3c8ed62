package tools

import (
	"testing"
)

func TestDefault_FullToolSurface(t *testing.T) {
	reg := Default()
	want := []string{
		"flexsim_open_model",
		"flexsim_reset",
		"flexsim_run",
		"flexsim_run_to_time",
		"flexsim_stop",
		"flexsim_get_time",
		"flexsim_step",
		"flexsim_evaluate",
		"flexsim_get_node_value",
		"flexsim_set_node_value",
		"flexsim_save_model",
		"flexsim_new_model",
		"flexsim_compile",
		"flexsim_get_statistics",
		"flexsim_export_results",
	}
	defs := reg.List()
	if len(defs) != len(want) {
		t.Fatalf("registered %d tools, want %d", len(defs), len(want))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Fatalf("defs[%d] = %q, want %q", i, defs[i].Name, name)
		}
		if defs[i].Description == "" {
			t.Fatalf("%s has no description", name)
		}
		if defs[i].Handler == nil {
			t.Fatalf("%s has no handler", name)
		}
		if defs[i].InputSchema == nil {
			t.Fatalf("%s has no input schema", name)
		}
	}
}

func TestDefault_Lookup(t *testing.T) {
	reg := Default()
	if _, ok := reg.Lookup("flexsim_run"); !ok {
		t.Fatalf("flexsim_run not found")
	}
	if _, ok := reg.Lookup("flexsim_teleport"); ok {
		t.Fatalf("unexpected tool found")
	}
}

func TestGenerateSchema_ObjectContract(t *testing.T) {
	schema := GenerateSchema[OpenModelInput]()
	if schema["type"] != "object" {
		t.Fatalf("schema type = %v", schema["type"])
	}
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %v", schema)
	}
	if _, ok := props["model_path"]; !ok {
		t.Fatalf("model_path missing from schema: %v", props)
	}
	if add, ok := schema["additionalProperties"].(bool); !ok || add {
		t.Fatalf("additionalProperties = %v, want false", schema["additionalProperties"])
	}
}

func TestGenerateSchema_Empty(t *testing.T) {
	schema := GenerateSchema[struct{}]()
	if schema["type"] != "object" {
		t.Fatalf("schema type = %v", schema["type"])
	}
}
