package ui

import (
	"strings"
	"text/template"
)

// Generation-time templates. [[ ]] delimiters keep the emitted {{ }}
// actions literal.
var templates = template.Must(template.New("ui").Delims("[[", "]]").Parse(`
[[- define "header" -]]
{{/* [[ .Header ]] */}}
[[ end -]]

[[- define "form" -]]
[[ template "header" . -]]
<form class="crouton-form" data-collection="[[ .Table ]]" method="post">
[[- range .Controls ]]
  <div class="crouton-field" data-field="[[ .Name ]]">
    <label for="[[ .Name ]]">[[ .Label ]]</label>
    [[ .Control ]]
  </div>
[[- end ]]
  <button type="submit">Save</button>
</form>
[[ end -]]

[[- define "list" -]]
[[ template "header" . -]]
<table class="crouton-list" data-collection="[[ .Table ]]">
  <thead>
    <tr>
[[- range .Columns ]]
      <th>[[ .Label ]]</th>
[[- end ]]
    </tr>
  </thead>
  <tbody>
    {{range .[[ .PluralPascal ]]}}
    <tr data-id="{{.ID}}">
[[- range .Columns ]]
      <td>[[ .Cell ]]</td>
[[- end ]]
    </tr>
    {{end}}
  </tbody>
</table>
[[ end -]]

[[- define "dependent_input" -]]
[[ template "header" . -]]
<div class="crouton-dependent-input" data-field="[[ .Field ]]" data-depends-on="[[ .DependsOn ]]">
  <label for="[[ .Field ]]">[[ .Label ]]</label>
  {{if .[[ .ParentPascal ]]}}
  [[ .Control ]]
  {{else}}
  <p class="crouton-hint">Select [[ .DependsOnLabel ]] first</p>
  {{end}}
</div>
[[ end -]]

[[- define "dependent_select_body" -]]
<select id="[[ .Field ]]" name="[[ .Field ]]" data-depends-on="[[ .DependsOn ]]"[[ if .Required ]] required[[ end ]]>
  <option value="">--</option>
  {{range .[[ .OptionsPascal ]]}}
  <option value="{{.ID}}" {{if eq .ID $.[[ .FieldPascal ]]}}selected{{end}}>{{.Label}}</option>
  {{end}}
</select>
[[ end -]]

[[- define "dependent_select" -]]
[[ template "header" . -]]
[[ template "dependent_select_body" . ]]
[[ end -]]

[[- define "dependent_card_mini" -]]
[[ template "header" . -]]
<div class="crouton-card-mini" data-field="[[ .Field ]]">
  <span class="crouton-card-mini-label">[[ .Label ]]</span>
  <span class="crouton-card-mini-value">{{.[[ .FieldPascal ]]Label}}</span>
  <span class="crouton-card-mini-parent">{{.[[ .ParentPascal ]]Label}}</span>
</div>
[[ end -]]
`))

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return strings.TrimLeft(b.String(), "\n"), nil
}
