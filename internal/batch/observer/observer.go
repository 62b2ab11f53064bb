// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package observer 实现边界观察者：一个窄的、单向只读的通知接口，供遥测关联使用
// （design: nx-engine-batch/ExecutionCoordinator.h 的 monitor 钩子）。观察者绝不能
// 持有 Session 或 ExecutionGraph 的引用——它只接收按值传递的事件快照，且从不
// 反向影响执行。
package observer

import (
	"nxbatch/internal/batch/graph"
	"nxbatch/internal/batch/session"
)

// SessionCreationEvent 是会话创建时发出的只读快照。
type SessionCreationEvent struct {
	SessionID session.ID
	JobCount  int
}

// ExecutionGraphCreationEvent 是执行图创建时发出的只读快照。
type ExecutionGraphCreationEvent struct {
	SessionID session.ID
	NodeCount int
}

// BoundaryObserver 是核心对外暴露的唯一通知面；实现不得在回调之外保存
// Session/ExecutionGraph 的引用——调用方也不会把这类引用交给它，只传值类型事件。
type BoundaryObserver interface {
	ObserveSessionCreation(event SessionCreationEvent)
	ObserveExecutionGraphCreation(event ExecutionGraphCreationEvent)
	PrepareTelemetryCorrelation(sessionID session.ID)
}

// NoopBoundaryObserver 丢弃所有事件；在调用方未配置观察者时使用。
type NoopBoundaryObserver struct{}

func (NoopBoundaryObserver) ObserveSessionCreation(SessionCreationEvent)               {}
func (NoopBoundaryObserver) ObserveExecutionGraphCreation(ExecutionGraphCreationEvent) {}
func (NoopBoundaryObserver) PrepareTelemetryCorrelation(session.ID)                    {}

// NotifySessionCreated constructs a SessionCreationEvent for sess and forwards it to
// obs, using sess.ID and len(sess.Jobs) at the call boundary only — obs never
// receives sess itself.
func NotifySessionCreated(obs BoundaryObserver, sess *session.Session) {
	if obs == nil {
		return
	}
	obs.PrepareTelemetryCorrelation(sess.ID)
	obs.ObserveSessionCreation(SessionCreationEvent{SessionID: sess.ID, JobCount: len(sess.Jobs)})
}

// NotifyExecutionGraphCreated constructs an ExecutionGraphCreationEvent for g and
// forwards it to obs; obs never receives g itself, only the node count.
func NotifyExecutionGraphCreated(obs BoundaryObserver, sessionID session.ID, g *graph.ExecutionGraph) {
	if obs == nil {
		return
	}
	obs.ObserveExecutionGraphCreation(ExecutionGraphCreationEvent{SessionID: sessionID, NodeCount: g.NodeCount()})
}
