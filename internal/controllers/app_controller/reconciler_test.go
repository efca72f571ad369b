/*
Copyright 2025 Flant JSC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package appcontroller_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/client-go/tools/record"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
	"sigs.k8s.io/controller-runtime/pkg/client/interceptor"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"
	"sigs.k8s.io/yaml"

	demov1 "github.com/suhassrivats/simple-k8s-operator/api/v1"
	"github.com/suhassrivats/simple-k8s-operator/internal/apps"
	appcontroller "github.com/suhassrivats/simple-k8s-operator/internal/controllers/app_controller"
	"github.com/suhassrivats/simple-k8s-operator/internal/scheme"
)

const webManifest = `
apiVersion: demo.mycompany.com/v1
kind: SimpleApp
metadata:
  name: web
  namespace: default
  uid: 6b0d1f7e-0000-4000-8000-000000000001
spec:
  image: nginx:1.25
  replicas: 3
`

const cfgwebManifest = `
apiVersion: demo.mycompany.com/v1
kind: ConfigMapApp
metadata:
  name: cfgweb
  namespace: default
  uid: 6b0d1f7e-0000-4000-8000-000000000002
spec:
  image: app:1
  configData:
    app.conf: k=v
    log.conf: level=info
`

func decode[T any](manifest string) *T {
	obj := new(T)
	Expect(yaml.Unmarshal([]byte(manifest), obj)).To(Succeed())
	return obj
}

func drainEvents(recorder *record.FakeRecorder) []string {
	var events []string
	for {
		select {
		case e := <-recorder.Events:
			events = append(events, e)
		default:
			return events
		}
	}
}

func requestFor(name string) reconcile.Request {
	return reconcile.Request{NamespacedName: types.NamespacedName{Namespace: "default", Name: name}}
}

var _ = Describe("Reconciler", func() {
	var (
		scm           *runtime.Scheme
		clientBuilder *fake.ClientBuilder
		createErr     func(obj client.Object) error
		creates       []string
		patches       []string
		variant       appcontroller.Variant
	)

	var (
		cl       client.WithWatch
		recorder *record.FakeRecorder
		rec      *appcontroller.Reconciler
	)

	BeforeEach(func() {
		var err error
		scm, err = scheme.New()
		Expect(err).NotTo(HaveOccurred())

		creates = nil
		patches = nil
		createErr = nil
		variant = appcontroller.SimpleApp

		clientBuilder = fake.NewClientBuilder().
			WithScheme(scm).
			WithInterceptorFuncs(interceptor.Funcs{
				Create: func(ctx context.Context, cl client.WithWatch, obj client.Object, opts ...client.CreateOption) error {
					creates = append(creates, obj.GetName())
					if createErr != nil {
						if err := createErr(obj); err != nil {
							return err
						}
					}
					return cl.Create(ctx, obj, opts...)
				},
				Patch: func(ctx context.Context, cl client.WithWatch, obj client.Object, patch client.Patch, opts ...client.PatchOption) error {
					patches = append(patches, obj.GetName())
					return cl.Patch(ctx, obj, patch, opts...)
				},
			})
		recorder = record.NewFakeRecorder(20)
	})

	JustBeforeEach(func() {
		cl = clientBuilder.Build()
		converger := apps.NewConverger(cl, recorder, apps.NewMetrics(), GinkgoLogr)
		rec = appcontroller.NewReconciler(cl, scm, converger, GinkgoLogr, variant)
	})

	It("does nothing when the owner is not found", func(ctx SpecContext) {
		result, err := rec.Reconcile(ctx, requestFor("missing"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(reconcile.Result{}))
		Expect(creates).To(BeEmpty())
		Expect(drainEvents(recorder)).To(BeEmpty())
	})

	When("a SimpleApp exists", func() {
		var web *demov1.SimpleApp

		BeforeEach(func() {
			web = decode[demov1.SimpleApp](webManifest)
			clientBuilder.WithObjects(web)
		})

		It("creates a single Deployment owned by the SimpleApp", func(ctx SpecContext) {
			_, err := rec.Reconcile(ctx, requestFor("web"))
			Expect(err).NotTo(HaveOccurred())

			deploy := &appsv1.Deployment{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "web-deployment"}, deploy)).To(Succeed())
			Expect(*deploy.Spec.Replicas).To(Equal(int32(3)))
			Expect(deploy.Spec.Template.Spec.Containers).To(HaveExactElements(SatisfyAll(
				HaveField("Name", "app"),
				HaveField("Image", "nginx:1.25"),
			)))
			Expect(deploy.Spec.Template.Spec.Volumes).To(BeEmpty())
			Expect(deploy.Labels).To(Equal(map[string]string{"app": "web"}))

			Expect(deploy.OwnerReferences).To(HaveExactElements(SatisfyAll(
				HaveField("APIVersion", "demo.mycompany.com/v1"),
				HaveField("Kind", "SimpleApp"),
				HaveField("Name", "web"),
				HaveField("UID", web.UID),
				HaveField("Controller", ptr.To(true)),
			)))

			cms := &corev1.ConfigMapList{}
			Expect(cl.List(ctx, cms, client.InNamespace("default"))).To(Succeed())
			Expect(cms.Items).To(BeEmpty())

			Expect(creates).To(Equal([]string{"web-deployment"}))
			Expect(patches).To(BeEmpty())
			Expect(drainEvents(recorder)).To(Equal([]string{
				"Normal Created Deployment web-deployment created",
			}))
		})

		It("patches the Deployment when replicas change", func(ctx SpecContext) {
			_, err := rec.Reconcile(ctx, requestFor("web"))
			Expect(err).NotTo(HaveOccurred())
			drainEvents(recorder)

			current := &demov1.SimpleApp{}
			Expect(cl.Get(ctx, client.ObjectKeyFromObject(web), current)).To(Succeed())
			current.Spec.Replicas = ptr.To(int32(5))
			Expect(cl.Update(ctx, current)).To(Succeed())

			_, err = rec.Reconcile(ctx, requestFor("web"))
			Expect(err).NotTo(HaveOccurred())

			deploys := &appsv1.DeploymentList{}
			Expect(cl.List(ctx, deploys, client.InNamespace("default"))).To(Succeed())
			Expect(deploys.Items).To(HaveLen(1))
			Expect(*deploys.Items[0].Spec.Replicas).To(Equal(int32(5)))
			Expect(deploys.Items[0].OwnerReferences).To(HaveLen(1))

			Expect(creates).To(Equal([]string{"web-deployment", "web-deployment"}))
			Expect(patches).To(Equal([]string{"web-deployment"}))
			Expect(drainEvents(recorder)).To(Equal([]string{
				"Normal Updated Deployment web-deployment updated",
			}))
		})

		It("is idempotent", func(ctx SpecContext) {
			_, err := rec.Reconcile(ctx, requestFor("web"))
			Expect(err).NotTo(HaveOccurred())
			first := &appsv1.Deployment{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "web-deployment"}, first)).To(Succeed())

			_, err = rec.Reconcile(ctx, requestFor("web"))
			Expect(err).NotTo(HaveOccurred())
			second := &appsv1.Deployment{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "web-deployment"}, second)).To(Succeed())

			Expect(second.Labels).To(Equal(first.Labels))
			Expect(second.OwnerReferences).To(Equal(first.OwnerReferences))
			Expect(second.Spec).To(Equal(first.Spec))
		})

		When("the Deployment create is forbidden", func() {
			BeforeEach(func() {
				createErr = func(obj client.Object) error {
					return apierrors.NewForbidden(schema.GroupResource{Group: "apps", Resource: "deployments"}, obj.GetName(), errors.New("denied"))
				}
			})

			It("returns the error for requeue", func(ctx SpecContext) {
				_, err := rec.Reconcile(ctx, requestFor("web"))
				Expect(err).To(HaveOccurred())
				Expect(apierrors.IsForbidden(err)).To(BeTrue())
				Expect(drainEvents(recorder)).To(BeEmpty())
			})
		})
	})

	When("the SimpleApp is being deleted", func() {
		BeforeEach(func() {
			web := decode[demov1.SimpleApp](webManifest)
			web.Finalizers = []string{"demo.mycompany.com/test"}
			web.DeletionTimestamp = &metav1.Time{Time: time.Now()}
			clientBuilder.WithObjects(web)
		})

		It("skips it", func(ctx SpecContext) {
			_, err := rec.Reconcile(ctx, requestFor("web"))
			Expect(err).NotTo(HaveOccurred())
			Expect(creates).To(BeEmpty())
		})
	})

	When("a ConfigMapApp exists", func() {
		BeforeEach(func() {
			variant = appcontroller.ConfigMapApp
			clientBuilder.WithObjects(decode[demov1.ConfigMapApp](cfgwebManifest))
		})

		It("creates the Deployment, then the ConfigMap it mounts", func(ctx SpecContext) {
			_, err := rec.Reconcile(ctx, requestFor("cfgweb"))
			Expect(err).NotTo(HaveOccurred())

			Expect(creates).To(Equal([]string{"cfgweb-deployment", "cfgweb-configmap"}))

			deploy := &appsv1.Deployment{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "cfgweb-deployment"}, deploy)).To(Succeed())
			Expect(*deploy.Spec.Replicas).To(Equal(int32(1)))
			Expect(deploy.Spec.Template.Spec.Volumes).To(HaveExactElements(SatisfyAll(
				HaveField("Name", "config-volume"),
				HaveField("VolumeSource.ConfigMap.LocalObjectReference.Name", "cfgweb-configmap"),
			)))
			Expect(deploy.Spec.Template.Spec.Containers[0].VolumeMounts).To(HaveExactElements(
				HaveField("MountPath", "/etc/config"),
			))

			cm := &corev1.ConfigMap{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "cfgweb-configmap"}, cm)).To(Succeed())
			Expect(cm.Data).To(Equal(map[string]string{"app.conf": "k=v", "log.conf": "level=info"}))
			Expect(cm.Labels).To(Equal(map[string]string{"app": "cfgweb"}))
			Expect(cm.OwnerReferences).To(HaveExactElements(HaveField("Kind", "ConfigMapApp")))

			Expect(drainEvents(recorder)).To(Equal([]string{
				"Normal Created Deployment cfgweb-deployment created",
				"Normal Created ConfigMap cfgweb-configmap created",
			}))
		})

		It("patches both targets when configData changes", func(ctx SpecContext) {
			_, err := rec.Reconcile(ctx, requestFor("cfgweb"))
			Expect(err).NotTo(HaveOccurred())
			drainEvents(recorder)

			current := &demov1.ConfigMapApp{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "cfgweb"}, current)).To(Succeed())
			current.Spec.ConfigData = map[string]string{"app.conf": "k=v2"}
			Expect(cl.Update(ctx, current)).To(Succeed())

			_, err = rec.Reconcile(ctx, requestFor("cfgweb"))
			Expect(err).NotTo(HaveOccurred())

			Expect(creates).To(Equal([]string{
				"cfgweb-deployment", "cfgweb-configmap",
				"cfgweb-deployment", "cfgweb-configmap",
			}))
			Expect(patches).To(Equal([]string{"cfgweb-deployment", "cfgweb-configmap"}))

			cm := &corev1.ConfigMap{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "cfgweb-configmap"}, cm)).To(Succeed())
			Expect(cm.Data).To(Equal(map[string]string{"app.conf": "k=v2"}))
			Expect(cm.OwnerReferences).To(HaveExactElements(SatisfyAll(
				HaveField("Kind", "ConfigMapApp"),
				HaveField("Name", "cfgweb"),
				HaveField("UID", current.UID),
				HaveField("Controller", ptr.To(true)),
			)))

			deploy := &appsv1.Deployment{}
			Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "cfgweb-deployment"}, deploy)).To(Succeed())
			Expect(deploy.OwnerReferences).To(HaveExactElements(SatisfyAll(
				HaveField("Kind", "ConfigMapApp"),
				HaveField("Name", "cfgweb"),
				HaveField("Controller", ptr.To(true)),
			)))

			Expect(drainEvents(recorder)).To(Equal([]string{
				"Normal Updated Deployment cfgweb-deployment updated",
				"Normal Updated ConfigMap cfgweb-configmap updated",
			}))
		})

		When("the apiserver rejects the Deployment", func() {
			BeforeEach(func() {
				createErr = func(obj client.Object) error {
					deploy, ok := obj.(*appsv1.Deployment)
					if !ok {
						return nil
					}
					return apierrors.NewInvalid(
						schema.GroupKind{Group: "apps", Kind: "Deployment"},
						deploy.Name,
						field.ErrorList{field.Required(field.NewPath("spec", "template", "spec", "containers").Index(0).Child("image"), "")},
					)
				}
			})

			It("does not create the ConfigMap", func(ctx SpecContext) {
				_, err := rec.Reconcile(ctx, requestFor("cfgweb"))
				Expect(err).To(HaveOccurred())
				Expect(apierrors.IsInvalid(err)).To(BeTrue())

				Expect(creates).To(Equal([]string{"cfgweb-deployment"}))
				Expect(cl.Get(ctx, client.ObjectKey{Namespace: "default", Name: "cfgweb-configmap"}, &corev1.ConfigMap{})).
					To(Satisfy(apierrors.IsNotFound))
				Expect(drainEvents(recorder)).To(BeEmpty())
			})
		})
	})
})
