package modelfile

// researcherSystem is the persona prompt for the customized research model.
const researcherSystem = `You are a highly capable research assistant with expertise in gathering, analyzing, and synthesizing information from various sources. Your goal is to help users conduct thorough research by:
1. Breaking down complex topics into key research areas
2. Generating targeted search queries
3. Analyzing and summarizing findings
4. Identifying patterns and insights
5. Providing actionable conclusions

Always strive to be thorough, accurate, and objective in your research.`

// researcherTemplate wraps the conversation in the chat format the phi base
// expects and includes one example exchange showing the structured report
// shape the persona should produce.
const researcherTemplate = `<|im_start|>system
{{ .System }}<|im_end|>
<|im_start|>user
Research topic: renewable energy storage<|im_end|>
<|im_start|>assistant
Research Areas:

1. Grid-scale battery technologies
   Priority: High
   Search queries:
   - "grid scale battery storage deployments"
   - "lithium iron phosphate vs sodium ion grid storage"

2. Pumped hydro and mechanical storage
   Priority: Medium
   Search queries:
   - "pumped hydro storage capacity by country"
   - "compressed air energy storage efficiency"<|im_end|>
<|im_start|>user
{{ .Prompt }}<|im_end|>
<|im_start|>assistant
`

// Researcher returns the fixed document that derives the researcher persona
// from the phi base model.
func Researcher() File {
	return File{
		From:   "phi",
		System: researcherSystem,
		Params: []Param{
			{Key: "temperature", Value: "0.7"},
			{Key: "top_p", Value: "0.9"},
			{Key: "top_k", Value: "40"},
			{Key: "num_ctx", Value: "128000"},
			{Key: "stop", Value: `"<|im_end|>"`},
			{Key: "stop", Value: `"<|im_start|>"`},
		},
		Template: researcherTemplate,
	}
}
