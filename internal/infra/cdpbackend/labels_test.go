package cdpbackend

import (
	"reflect"
	"testing"
)

const formFragment = `<form method="get" action="submitted-form.html">
  <div class="row">
    <div class="col-md-4">
      <label class="form-label w-100">Text input
        <input type="text" class="form-control" name="my-text" id="my-text-id" myprop="myvalue">
      </label>
      <label class="form-label w-100">Password
        <input type="password" class="form-control" name="my-password" autocomplete="off">
      </label>
      <label class="form-label w-100">Dropdown (select)
        <select class="form-select" name="my-select">
          <option selected="">Open this select menu</option>
          <option value="1">One</option>
          <option value="2">Two</option>
        </select>
      </label>
    </div>
    <div class="col-md-4">
      <div class="form-check">
        <label class="form-check-label w-100">
          <input class="form-check-input" type="checkbox" name="my-check" id="my-check-1" checked="">
          Checked checkbox
        </label>
      </div>
      <div class="form-check">
        <label class="form-check-label w-100">
          <input class="form-check-input" type="radio" name="my-radio" id="my-radio-2">
          Default radio
        </label>
      </div>
    </div>
  </div>
</form>`

func TestParseLabelsOwnTextOnly(t *testing.T) {
	got, err := parseLabels(formFragment, selFieldLabels)
	if err != nil {
		t.Fatalf("parseLabels error: %v", err)
	}
	want := []string{"Text input", "Password", "Dropdown (select)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLabelsCheckables(t *testing.T) {
	got, err := parseLabels(formFragment, selCheckLabels)
	if err != nil {
		t.Fatalf("parseLabels error: %v", err)
	}
	want := []string{"Checked checkbox", "Default radio"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseLabelsNoMatch(t *testing.T) {
	got, err := parseLabels("<div></div>", selFieldLabels)
	if err != nil {
		t.Fatalf("parseLabels error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no labels, got %v", got)
	}
}
