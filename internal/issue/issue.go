// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	HandlerEnvInvalidId
	RuntimeNotFoundId
	SeedFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation links
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load the bootstrap configuration!

extboot could not load its deployment configuration file.

## Configuration file locations (in order of precedence):
1. The path passed via --config
2. /etc/extboot/extboot.cue
3. extboot.cue in the extension directory

## Things you can try:
- Check the CUE syntax of the file
- Remove the file entirely; extboot runs fine on built-in defaults
- Compare against the documented schema:
~~~cue
handler_script: "main/handle.py"
generic_runtime: "python3"

candidates: [
	{name: "python3.12", primary_dir: "/usr/bin"},
	{name: "python3.11", primary_dir: "/usr/bin", secondary_dir: "/usr/local/bin"},
]
~~~`,
	}

	handlerEnvInvalidIssue = &Issue{
		id: HandlerEnvInvalidId,
		mdMsg: `
# Handler environment descriptor problem!

extboot could not read HandlerEnvironment.json, so extension log lines are
going to the fallback directory instead of the agent's log folder.

## What the descriptor looks like:
~~~json
[{
  "version": 1.0,
  "handlerEnvironment": {
    "logFolder": "/var/log/ext/1.0"
  }
}]
~~~

## Things you can try:
- Verify the host agent unpacked the extension completely
- Check that the descriptor sits next to the extension binary (or one
  directory above it)
- Validate the JSON; comments and trailing commas are tolerated, anything
  else is not`,
	}

	runtimeNotFoundIssue = &Issue{
		id: RuntimeNotFoundId,
		mdMsg: `
# No usable runtime interpreter found!

Every ranked interpreter candidate was missing, the generic PATH lookup
failed, and no interpreter could be recovered from the running agent
process. The handler was never invoked (exit status 3).

## Resolution order:
1. Ranked candidates, each probed at its primary then secondary directory
2. The generic runtime name resolved through PATH
3. The interpreter path recovered from the reference agent process

## Things you can try:
- Install a Python 3 interpreter under /usr/bin or /usr/local/bin
- Check the candidate list in your extboot.cue against what the machine
  actually has
- Confirm the reference agent process is running if you rely on recovery`,
	}

	seedFailedIssue = &Issue{
		id: SeedFailedId,
		mdMsg: `
# Could not seed the workload configuration!

The install step failed to put the default workload configuration in place.
Install still reports success to the agent; the handler will run with
whatever configuration exists at enable time.

## Things you can try:
- Check permissions on the workload config directory (default /etc/extboot)
- Create the file manually from the bundled default
- Re-run the install step once the filesystem issue is fixed; seeding is
  idempotent`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		handlerEnvInvalidIssue.Id(): handlerEnvInvalidIssue,
		runtimeNotFoundIssue.Id():   runtimeNotFoundIssue,
		seedFailedIssue.Id():        seedFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
