package system

import (
	"github.com/milk9111/sentinel/ecs"
	"github.com/milk9111/sentinel/ecs/component"
	"github.com/milk9111/sentinel/logger"
	"github.com/sirupsen/logrus"
)

// PhysicsSyncSystem registers new bodies with the physics world and copies
// transforms of moving bodies into it so raycasts see this tick's layout.
type PhysicsSyncSystem struct{}

func NewPhysicsSyncSystem() *PhysicsSyncSystem {
	return &PhysicsSyncSystem{}
}

func (s *PhysicsSyncSystem) Update(w *ecs.World, _ float64) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach2(w, component.BodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, body *component.Body, tr *component.Transform) {
		if !body.Registered {
			var err error
			if body.Static {
				err = pw.AddStaticBox(e, tr.Position, body.HalfX, body.HalfZ)
			} else {
				err = pw.AddCircle(e, tr.Position, body.Radius, body.Category)
			}
			if err != nil {
				logger.Log.WithFields(logrus.Fields{"entity": e.String()}).WithError(err).Warn("physics: register body")
				_ = ecs.Remove(w, e, component.BodyComponent.Kind())
				return
			}
			body.Registered = true
			return
		}
		if !body.Static {
			pw.SyncBody(e, tr.Position)
		}
	})
}
