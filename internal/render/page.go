package render

import (
	"html/template"
	"io"
)

type PageData struct {
	FormHidden   bool
	FormDisplay  string
	Kind         string
	ShowCadence  bool
	PendingClick string
	Workouts     template.HTML
	DeletePopup  bool
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>mapty // Map your workouts</title>
</head>
<body>
  <div class="sidebar">
    <ul class="workouts">
      <form class="form{{if .FormHidden}} hidden{{end}}" style="display: {{.FormDisplay}}" data-click="{{.PendingClick}}">
        <div class="form__row">
          <label class="form__label">Type</label>
          <select class="form__input form__input--type">
            <option value="running"{{if eq .Kind "running"}} selected{{end}}>Running</option>
            <option value="cycling"{{if eq .Kind "cycling"}} selected{{end}}>Cycling</option>
          </select>
        </div>
        <div class="form__row">
          <label class="form__label">Distance</label>
          <input class="form__input form__input--distance" placeholder="km" />
        </div>
        <div class="form__row">
          <label class="form__label">Duration</label>
          <input class="form__input form__input--duration" placeholder="min" />
        </div>
        <div class="form__row{{if not .ShowCadence}} form__row--hidden{{end}}">
          <label class="form__label">Cadence</label>
          <input class="form__input form__input--cadence" placeholder="step/min" />
        </div>
        <div class="form__row{{if .ShowCadence}} form__row--hidden{{end}}">
          <label class="form__label">Elev Gain</label>
          <input class="form__input form__input--elevation" placeholder="meters" />
        </div>
        <button class="form__btn">OK</button>
      </form>
      {{.Workouts}}
    </ul>
  </div>
  <div id="map"></div>
  <div id="deletePopup" class="popup{{if not .DeletePopup}} hidden{{end}}">
    <p>Delete this workout?</p>
    <button class="popup__btn popup__btn--confirm">Delete</button>
    <button class="popup__btn popup__btn--cancel">Cancel</button>
  </div>
</body>
</html>
`))

func Page(w io.Writer, data PageData) error {
	return pageTmpl.Execute(w, data)
}
