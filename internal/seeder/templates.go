package seeder

import "text/template"

// seedData parameterizes the boilerplate for one new operation file.
type seedData struct {
	Namespace  string
	Name       string
	ArgsType   string // derived interface name, e.g. GetUserArgs
	ArgName    string
	KeysExport string // namespace key-table binding, e.g. usersKeys
	KeyRef     string // accessor into the key table for this operation
}

var queryTemplate = template.Must(template.New("query").Parse(`import { queryOptions } from "@tanstack/react-query";

import { {{.KeysExport}} } from "../queryKeys";

export interface {{.ArgsType}} {}

export const createQueryOptions = ({{.ArgName}}: {{.ArgsType}}) =>
  queryOptions({
    queryKey: {{.KeyRef}}({{.ArgName}}),
    queryFn: async () => {
      throw new Error("{{.Namespace}}/{{.Name}} is not implemented yet");
    },
  });
`))

var mutationTemplate = template.Must(template.New("mutation").Parse(`import { mutationOptions } from "@tanstack/react-query";

import { {{.KeysExport}} } from "../queryKeys";

export interface {{.ArgsType}} {}

export const createMutationOptions = () =>
  mutationOptions({
    mutationKey: {{.KeyRef}},
    mutationFn: async ({{.ArgName}}: {{.ArgsType}}) => {
      throw new Error("{{.Namespace}}/{{.Name}} is not implemented yet");
    },
  });
`))
