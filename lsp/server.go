// Package lsp serves equation files over the Language Server Protocol.
// Each line holds one equation; the server reports lines that cannot be
// balanced, offers the balanced form as a quick fix, and shows atom counts
// on hover.
package lsp

import (
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "stoich"

var log = commonlog.GetLogger("stoich.lsp")

type Server struct {
	documents *Documents
	handler   protocol.Handler
	server    *server.Server
	version   string
	locale    string
}

func NewServer(version, locale string) *Server {
	ls := &Server{
		documents: NewDocuments(),
		version:   version,
		locale:    locale,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentHover:      ls.textDocumentHover,
		TextDocumentCodeAction: ls.textDocumentCodeAction,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CodeActionProvider = &protocol.CodeActionOptions{
		CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("%s %s ready", lsName, ls.version)
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.documents.Update(params.TextDocument.URI, params.TextDocument.Version, params.TextDocument.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		doc := ls.documents.Update(params.TextDocument.URI, params.TextDocument.Version, textChange.Text)
		ls.publish(ctx, doc)
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.documents.Remove(params.TextDocument.URI)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text == nil {
		return nil
	}
	version := int32(0)
	if doc := ls.documents.Get(params.TextDocument.URI); doc != nil {
		version = doc.Version
	}
	doc := ls.documents.Update(params.TextDocument.URI, version, *params.Text)
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) publish(ctx *glsp.Context, doc *Document) {
	diagnostics := diagnosticsFor(doc.Reports, ls.locale)
	log.Debugf("%s: %d diagnostics", doc.URI, len(diagnostics))
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diagnostics,
	})
}

func (ls *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := ls.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return hover(doc, int(params.Position.Line), ls.locale), nil
}

func (ls *Server) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := ls.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	actions := codeActions(doc, params.Range)
	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

func hover(doc *Document, line int, locale string) *protocol.Hover {
	r, ok := doc.Report(line)
	if !ok {
		return nil
	}
	rng := r.lineRange()
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: r.Markdown(locale),
		},
		Range: &rng,
	}
}

// codeActions offers a quick fix for every line in rng that balances to a
// different text.
func codeActions(doc *Document, rng protocol.Range) []protocol.CodeAction {
	var actions []protocol.CodeAction
	kind := protocol.CodeActionKind(protocol.CodeActionKindQuickFix)
	for _, r := range doc.Reports {
		if r.Line < int(rng.Start.Line) || r.Line > int(rng.End.Line) {
			continue
		}
		fixed, ok := r.Fix()
		if !ok {
			continue
		}
		preferred := true
		actions = append(actions, protocol.CodeAction{
			Title:       "Balance: " + fixed,
			Kind:        &kind,
			IsPreferred: &preferred,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					protocol.DocumentUri(doc.URI): {{Range: r.lineRange(), NewText: fixed}},
				},
			},
		})
	}
	return actions
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}
