package main

// The C half of a compiled program: allocates the heap, calls the generated
// entry point, prints the result, and provides the error stubs the emitted
// assertions jump to. Written next to the generated .s file by `fdlc build`
// and compiled with `cc -m32`.

const runtimeSource = `/* fdlc runtime */
#include <stdio.h>
#include <stdlib.h>

#define FDL_TRUE  0xFFFFFFFFu
#define FDL_FALSE 0x7FFFFFFFu

extern unsigned int fdl_main(unsigned int *heap);

static void print_value(unsigned int val) {
    if ((val & 1u) == 0u) {
        printf("%d", ((int)val) >> 1);
    } else if (val == FDL_TRUE) {
        printf("true");
    } else if (val == FDL_FALSE) {
        printf("false");
    } else if ((val & 7u) == 5u) {
        printf("<function>");
    } else if ((val & 7u) == 1u) {
        unsigned int *p = (unsigned int *)(val - 1u);
        unsigned int size = p[0] >> 1;
        unsigned int i;
        printf("(");
        for (i = 1; i <= size; i++) {
            if (i > 1) {
                printf(", ");
            }
            print_value(p[i]);
        }
        printf(")");
    } else {
        printf("<unknown 0x%08x>", val);
    }
}

unsigned int print(unsigned int val) {
    print_value(val);
    printf("\n");
    return val;
}

static void die(int code, const char *msg) {
    fprintf(stderr, "runtime error: %s\n", msg);
    exit(code);
}

void error_non_number(void)     { die(1, "expected a number"); }
void error_non_boolean(void)    { die(2, "expected a boolean"); }
void error_non_tuple(void)      { die(3, "expected a tuple"); }
void error_non_closure(void)    { die(4, "expected a function"); }
void error_arith_overflow(void) { die(5, "arithmetic overflow"); }
void error_index_low(void)      { die(6, "index too small"); }
void error_index_high(void)     { die(7, "index too large"); }
void error_arity(void)          { die(8, "arity mismatch"); }

int main(void) {
    unsigned int *heap = calloc(1 << 20, sizeof(unsigned int));
    unsigned int result;
    if (heap == NULL) {
        fprintf(stderr, "runtime error: out of memory\n");
        return 9;
    }
    result = fdl_main(heap);
    print(result);
    return 0;
}
`
