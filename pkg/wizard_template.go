package pkg

// ConfigTemplate is the starter configuration rendered by the setup
// wizard. Card and merchant entries are placeholders to fill in with
// the lab's real test data.
var ConfigTemplate = `project: {{.Project}}

runner:
  mode: {{.Mode}}
  production: ["robot"]
  development: ["python", "-m", "robot.run"]

output_root: results

versions:
  available: ["V1", "V2"]
  dual_label: "V1+V2"
{{- if .Dual}}

# combined test names and their underlying V1/V2 test cases;
# either side may be left out
mapping:
  "Combined Auth":
    v1: "AUAI Onus"
    v2: "AUAI Offus"
{{- end}}

cards:
{{- range .Networks}}
  {{.}}:
    onus:
      - pan: "0000000000000000"
        expiry: "2904"
        cvv1: "123"
        cvv2: "456"
        description: "replace with a real on-us card"
    offus:
      - pan: "0000000000000001"
        expiry: "2904"
        cvv1: "123"
        cvv2: "456"
        description: "replace with a real off-us card"
{{- end}}

merchants:
  V1:
    - org: "0001"
      id: "MERCH01"
      currency: "0978"
      terminal: "T001"
      description: "replace with a real merchant"
`
